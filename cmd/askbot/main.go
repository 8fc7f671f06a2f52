package main

import (
	"fmt"
	"log"
	"os"

	"github.com/m3rciful/askbot/bot"
	"github.com/m3rciful/askbot/core/buildinfo"
	"github.com/m3rciful/askbot/core/cmd"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(buildinfo.String())
		return
	}

	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			cfg, ok := carrier.(*bot.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			return bot.New(cfg)
		},
	})
	if err != nil {
		log.Fatalf("askbot: %v", err)
	}
}
