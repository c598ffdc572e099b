package main

import (
	"github.com/tmbbs/tmbbs/config"
	"github.com/tmbbs/tmbbs/models"
	"github.com/tmbbs/tmbbs/routes"
	"github.com/tmbbs/tmbbs/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.QuestionTag{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
		&models.PageView{},
	)

	// Avatar storage is optional: without an endpoint the upload endpoint
	// reports itself unavailable instead of failing boot.
	var store *utils.ObjectStore
	if cfg.MinioEndpoint != "" {
		s, err := utils.NewObjectStore(cfg)
		if err != nil {
			utils.Sugar.Fatalf("object storage init failed: %v", err)
		}
		store = s
	} else {
		utils.Sugar.Warn("object storage not configured, avatar uploads disabled")
	}

	r := routes.SetupRouter(db, store)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.RunServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
