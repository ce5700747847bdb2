package linux_installer

import "github.com/rs/zerolog/log"

// RefreshMenus asks the desktop environment to pick up new menu entries in menuDir.
// KDE doesn't notice new .desktop files until its system configuration cache is
// rebuilt, so the first available cache tool is run; then the desktop database for
// menuDir is updated if the tool for it exists.
//
// Nothing here can fail the installation. The returned results contain one entry for
// the cache rebuild and one for the database update, in that order.
func RefreshMenus(menuDir string, locator Locator, runner CommandRunner, config MenuConfig) []CommandResult {
	logger := log.With().Str("component", "menu").Logger()
	results := make([]CommandResult, 0, 2)

	cacheResult := notFound("")
	for _, name := range config.CacheTools {
		if path, ok := locator.Find(name); ok {
			cacheResult = runCommand(runner, name, path)
			break
		}
	}
	if cacheResult.Status == CommandNotFound {
		logger.Debug().Strs("tools", config.CacheTools).Msg("No menu cache tool found")
	}
	results = append(results, cacheResult)

	databaseResult := notFound(config.DatabaseTool)
	if config.DatabaseTool != "" {
		if path, ok := locator.Find(config.DatabaseTool); ok {
			databaseResult = runCommand(runner, config.DatabaseTool, path, menuDir)
		} else {
			logger.Debug().Str("tool", config.DatabaseTool).Msg("Desktop database tool not found")
		}
	}
	return append(results, databaseResult)
}
