package main

import "github.com/killallgit/podhub/cmd"

// @title           podhub API
// @version         1.0.0
// @description     Normalized podcast feeds, feed catalog and episode lookup on top of a headless content API
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/podhub
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Content API JWT as "Bearer <token>"
func main() {
	cmd.Execute()
}
