package api

// InitRouter registers every API route group. Call after webserver.Init.
func InitRouter() {
	registerAuthRoutes()
	registerCategoryRoutes()
	registerProductRoutes()
	registerOrderRoutes()
	registerExportRoutes()
	registerStatsRoutes()
}
