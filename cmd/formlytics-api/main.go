package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	app "github.com/formlytics/formlytics-api/pkg/api"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Can't load .env file: %s", err)
	}

	a := app.NewApp()
	a.RunForever()
}
