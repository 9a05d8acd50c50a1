// main.go
package main

import "github.com/ariebrainware/docflow-schedule/cmd"

// @title           DocFlow Schedule API
// @version         1.0
// @description     Scheduling backend for medical practices.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cmd.Execute()
}
