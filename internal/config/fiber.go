package config

import (
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

func NewFiber(cfg AppConfig) *fiber.App {
	bodyLimit := int(cfg.MaxUploadBytes)
	if bodyLimit <= 0 {
		bodyLimit = 50 * 1024 * 1024
	}

	app := fiber.New(
		fiber.Config{
			AppName:               "Face Console",
			BodyLimit:             bodyLimit,
			DisableKeepalive:      false,
			StrictRouting:         true,
			CaseSensitive:         true,
			DisableStartupMessage: cfg.Env == "test",
			JSONEncoder:           jsoniter.Marshal,
			JSONDecoder:           jsoniter.Unmarshal,
		})

	return app
}
