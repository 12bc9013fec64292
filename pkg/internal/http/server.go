package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	pkg "github.com/hoacouncil/canvass/pkg/internal"
	"github.com/hoacouncil/canvass/pkg/internal/http/admin"
	"github.com/hoacouncil/canvass/pkg/internal/http/api"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type App struct {
	app *fiber.App
}

func NewServer() *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               pkg.AppName + " v" + pkg.AppVersion,
		EnableIPValidation:    true,
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
		BodyLimit:             8 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowOrigins:     viper.GetString("security.cors_origins"),
	}))

	api.MapAPIs(app)
	admin.MapAdminAPIs(app)

	return &App{app}
}

func (v *App) Listen() {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting http server.")
	}
}
