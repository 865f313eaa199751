package commands

import (
	"net"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"petriz/controllers"
	"petriz/core"
	"petriz/internal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the glossary API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := core.GetDB()
		if err != nil {
			return err
		}

		engine, err := createServer(db)
		if err != nil {
			return err
		}

		host := os.Getenv("HOST")
		if host == "" {
			host = "0.0.0.0"
		}
		port := os.Getenv("PORT")
		if port == "" {
			port = "8000"
		}

		return engine.Run(net.JoinHostPort(host, port))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func createServer(db *gorm.DB) (*gin.Engine, error) {
	engine := gin.Default()
	if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	engine.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With, X-Client-ID, X-Client-Secret")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	logger, err := internal.NewLogger()
	if err != nil {
		return nil, err
	}

	router := controllers.Router{
		DB: db,
		HealthController: &controllers.HealthController{
			DB:     db,
			Logger: logger.With("controller", "health"),
		},
		SearchController: &controllers.SearchController{
			DB:     db,
			Logger: logger.With("controller", "search"),
		},
		ClientsController: &controllers.ClientsController{
			DB:     db,
			Logger: logger.With("controller", "clients"),
		},
		AuditsController: &controllers.AuditsController{
			DB:     db,
			Logger: logger.With("controller", "audits"),
		},
	}

	router.RegisterRoutes(engine)
	return engine, nil
}
