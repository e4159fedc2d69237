// Package seed loads the base game catalog on startup: factions, classes,
// races, expansions, guilds, achievements and the default accounts. Each
// table is only filled when empty, so restarting the server never
// duplicates rows.
package seed

import (
	"fmt"

	"github.com/azerothdev/azeroth-api/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run loads all base data in dependency order.
func Run(db *gorm.DB, logger *zap.Logger) error {
	steps := []struct {
		name string
		fn   func(*gorm.DB, *zap.Logger) error
	}{
		{"classes", seedClasses},
		{"factions", seedFactions},
		{"races", seedRaces},
		{"expansions", seedExpansions},
		{"achievements", seedAchievements},
		{"guilds", seedGuilds},
		{"users", seedUsers},
	}
	for _, step := range steps {
		if err := step.fn(db, logger); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
	}
	return nil
}

var classNames = []string{
	"Warrior", "Mage", "Rogue", "Hunter", "Shaman",
	"Warlock", "Paladin", "Druid", "Priest",
}

func seedClasses(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&model.Class{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, name := range classNames {
		if err := db.Create(&model.Class{Name: name}).Error; err != nil {
			return err
		}
	}
	logger.Info("seeded classes", zap.Int("count", len(classNames)))
	return nil
}

func seedFactions(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&model.Faction{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, name := range []string{model.FactionAlliance, model.FactionHorde} {
		if err := db.Create(&model.Faction{Name: name}).Error; err != nil {
			return err
		}
	}
	logger.Info("seeded factions")
	return nil
}

// raceDefs maps each race to its faction and playable classes.
var raceDefs = []struct {
	name    string
	faction string
	classes []string
}{
	{"Human", model.FactionAlliance, []string{"Warrior", "Paladin", "Mage", "Priest", "Rogue", "Warlock"}},
	{"Orc", model.FactionHorde, []string{"Warrior", "Hunter", "Rogue", "Shaman", "Warlock"}},
	{"Night Elf", model.FactionAlliance, []string{"Warrior", "Hunter", "Rogue", "Priest", "Druid"}},
	{"Dwarf", model.FactionAlliance, []string{"Warrior", "Paladin", "Hunter", "Rogue", "Priest"}},
	{"Tauren", model.FactionHorde, []string{"Warrior", "Hunter", "Shaman", "Druid"}},
	{"Gnome", model.FactionAlliance, []string{"Warrior", "Rogue", "Mage", "Warlock"}},
	{"Undead", model.FactionHorde, []string{"Warrior", "Rogue", "Priest", "Mage", "Warlock"}},
	{"Troll", model.FactionHorde, []string{"Warrior", "Hunter", "Rogue", "Priest", "Shaman", "Mage"}},
	{"Draenei", model.FactionAlliance, []string{"Warrior", "Paladin", "Hunter", "Priest", "Shaman", "Mage"}},
	{"Blood Elf", model.FactionHorde, []string{"Warrior", "Paladin", "Hunter", "Rogue", "Priest", "Mage", "Warlock"}},
	{"Worgen", model.FactionAlliance, []string{"Warrior", "Paladin", "Hunter", "Rogue", "Priest", "Druid"}},
}

func seedRaces(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&model.Race{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	factionByName := make(map[string]model.Faction)
	var factions []model.Faction
	if err := db.Find(&factions).Error; err != nil {
		return err
	}
	for _, f := range factions {
		factionByName[f.Name] = f
	}
	classByName := make(map[string]model.Class)
	var classes []model.Class
	if err := db.Find(&classes).Error; err != nil {
		return err
	}
	for _, c := range classes {
		classByName[c.Name] = c
	}

	for _, def := range raceDefs {
		faction, ok := factionByName[def.faction]
		if !ok {
			return fmt.Errorf("faction %q missing", def.faction)
		}
		race := model.Race{Name: def.name, FactionID: faction.ID}
		for _, className := range def.classes {
			class, ok := classByName[className]
			if !ok {
				return fmt.Errorf("class %q missing", className)
			}
			race.Classes = append(race.Classes, class)
		}
		if err := db.Create(&race).Error; err != nil {
			return err
		}
	}
	logger.Info("seeded races", zap.Int("count", len(raceDefs)))
	return nil
}

func seedExpansions(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&model.Expansion{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	expansions := []model.Expansion{
		{Name: "Classic", MaxLevel: 60},
		{Name: "The Burning Crusade", MaxLevel: 70},
	}
	if err := db.Create(&expansions).Error; err != nil {
		return err
	}
	logger.Info("seeded expansions", zap.Int("count", len(expansions)))
	return nil
}

type achievementDef struct {
	title       string
	description string
	reward      float64
	target      int
}

var achievementDefs = []achievementDef{
	{"First Steps in Azeroth", "Reach level 10", 500, 1},
	{"Seasoned Adventurer", "Reach level 20", 1000, 1},
	{"Hero of Azeroth", "Reach level 40", 2500, 1},
	{"Living Legend", "Reach level 60", 5000, 1},
	{"Champion of Outland", "Reach level 70", 7500, 1},
	{"Murloc Hunter", "Defeat 50 murlocs", 1000, 50},
	{"Kobold Exterminator", "Defeat 30 kobolds", 800, 30},
	{"Spider Tamer", "Defeat 40 giant spiders", 1500, 40},
	{"Defias Conqueror", "Defeat 35 members of the Defias Brotherhood", 1800, 35},
	{"Linen Collector", "Gather 50 pieces of linen cloth", 1000, 50},
	{"Apprentice Miner", "Gather 30 pieces of copper ore", 800, 30},
	{"Dedicated Herbalist", "Gather 40 medicinal herbs", 1200, 40},
	{"VanCleef's Downfall", "Defeat Edwin VanCleef in The Deadmines", 3000, 1},
	{"Conqueror of Gnomeregan", "Defeat Mekgineer Thermaplugg in Gnomeregan", 4000, 1},
	{"Scarlet Monastery Purifier", "Defeat every boss of the Scarlet Monastery", 4500, 4},
	{"Scourge of Uldaman", "Defeat Archaedas in Uldaman", 5000, 1},
	{"Cleansing of Stratholme", "Defeat Baron Rivendare in Stratholme", 7500, 1},
	{"Conqueror of Dire Maul", "Defeat every boss of Dire Maul", 8500, 3},
	{"Firelord", "Defeat Ragnaros in Molten Core", 15000, 1},
	{"Onyxia's Lair", "Defeat Onyxia in her lair", 15000, 1},
	{"Dragonslayer", "Defeat Nefarian in Blackwing Lair", 18000, 1},
	{"Master of Karazhan", "Defeat Prince Malchezaar in Karazhan", 15000, 1},
	{"Champion of Vashj", "Defeat Lady Vashj in Serpentshrine Cavern", 18000, 1},
	{"Conqueror of the Keep", "Defeat Kael'thas Sunstrider in Tempest Keep", 18000, 1},
	{"Gruul's Lair", "Defeat Gruul the Dragonkiller", 15000, 1},
	{"Demon Hunter", "Defeat 100 demons in Outland", 2500, 100},
	{"Explorer of Azeroth", "Explore every zone of Azeroth", 5000, 30},
	{"Explorer of Outland", "Explore every zone of Outland", 4000, 7},
	{"Master of Professions", "Reach skill 300 in a profession", 3000, 1},
	{"Experienced Rider", "Obtain your first epic mount", 3500, 1},
	{"Master Angler", "Catch 500 fish", 2000, 500},
	{"Relentless Duelist", "Win 50 duels against other players", 3000, 50},
	{"Battleground Hero", "Take part in 100 battlegrounds", 4000, 100},
	{"Flag Keeper", "Capture 25 flags in Warsong Gulch", 3500, 25},
}

func seedAchievements(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&model.Achievement{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	achievements := make([]model.Achievement, len(achievementDefs))
	for i, def := range achievementDefs {
		achievements[i] = model.Achievement{
			Title:        def.title,
			Description:  def.description,
			RewardPoints: def.reward,
			TargetValue:  def.target,
		}
	}
	if err := db.Create(&achievements).Error; err != nil {
		return err
	}
	logger.Info("seeded achievements", zap.Int("count", len(achievements)))
	return nil
}

var guildDefs = []struct {
	name    string
	realm   string
	faction string
}{
	{"Knights of the Round Table", "Dun Modr", model.FactionAlliance},
	{"Guardians of the Dawn", "Spinneshatter", model.FactionAlliance},
	{"Eternal Light", "Dun Modr", model.FactionAlliance},
	{"Avengers of Azeroth", "Zul'jin", model.FactionAlliance},
	{"Brotherhood of the Phoenix", "Spinneshatter", model.FactionAlliance},
	{"The Savage Horde", "Zul'jin", model.FactionHorde},
	{"Blood and Honor", "Dun Modr", model.FactionHorde},
	{"The Dark Forsaken", "Spinneshatter", model.FactionHorde},
	{"Claws of War", "Zul'jin", model.FactionHorde},
	{"Thunder Tribe", "Dun Modr", model.FactionHorde},
}

func seedGuilds(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&model.Guild{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	factionByName := make(map[string]model.Faction)
	var factions []model.Faction
	if err := db.Find(&factions).Error; err != nil {
		return err
	}
	for _, f := range factions {
		factionByName[f.Name] = f
	}

	for _, def := range guildDefs {
		faction, ok := factionByName[def.faction]
		if !ok {
			return fmt.Errorf("faction %q missing", def.faction)
		}
		guild := model.Guild{Name: def.name, Realm: def.realm, FactionID: faction.ID}
		if err := db.Create(&guild).Error; err != nil {
			return err
		}
	}
	logger.Info("seeded guilds", zap.Int("count", len(guildDefs)))
	return nil
}

func seedUsers(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defs := []struct {
		username string
		password string
		email    string
		role     string
	}{
		{"admin", "admin123", "admin@azeroth.com", model.RoleAdmin},
		{"player1", "player123", "player1@azeroth.com", model.RoleUser},
		{"player2", "player123", "player2@azeroth.com", model.RoleUser},
	}
	for _, def := range defs {
		hash, err := bcrypt.GenerateFromPassword([]byte(def.password), 12)
		if err != nil {
			return err
		}
		user := model.User{
			Username:     def.username,
			PasswordHash: string(hash),
			Email:        def.email,
			Role:         def.role,
			Enabled:      true,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	logger.Info("seeded users", zap.Int("count", len(defs)))
	return nil
}
