package main

import (
	"context"
	"log"

	"github.com/Apurer/foxnuts-farm-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("foxnuts-farm-api: %v", err)
	}
}
