package main

import (
	"fmt"
	"log"

	"github.com/zeynale/menubot/core/buildinfo"
	"github.com/zeynale/menubot/core/cmd"
	"github.com/zeynale/menubot/internal/app"
)

func main() {
	log.Printf("menubot %s (%s)", buildinfo.Version, buildinfo.Commit)

	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return app.Load(path)
		},
		Bootstrap: func(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			cfg, ok := carrier.(*app.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			return app.Bootstrap(cfg)
		},
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
