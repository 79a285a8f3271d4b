/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
// @title           Testimonial Gin API
// @version         1.0
// @description     Customer testimonial API server: admin moderation and storefront listing

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /
package main

import "github.com/mautops/testimonial-gin/cmd"

func main() {
	cmd.Execute()
}
