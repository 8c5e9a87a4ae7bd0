package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"dicom2png/batch"
	"dicom2png/constants"
	"dicom2png/server"
	"dicom2png/storage"
	"dicom2png/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newLogger() *zap.Logger {
	env := viper.GetString("workspace.env")
	var logger *zap.Logger
	switch env {
	case "DEVELOPMENT":
		logger, _ = zap.NewDevelopment()
	default:
		logger, _ = zap.NewProduction()
	}
	return logger
}

func initConfigs(env string) {
	viper.SetDefault("workspace.env", "DEVELOPMENT")
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("converter.output_path", defaultOutputPath())
	viper.SetDefault("converter.workers", 0)
	viper.SetDefault("minio.enabled", false)

	viper.AddConfigPath("conf")
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	viper.AutomaticEnv()
	replacer := strings.NewReplacer(".", "__")
	viper.SetEnvKeyReplacer(replacer)
	if err := viper.ReadInConfig(); err != nil {
		// The batch mode has sane defaults for everything, so a missing
		// config file is not fatal the way it would be for a service.
		utils.LogInfo("no config file for [%s], using defaults", env)
	}
}

func defaultOutputPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "png_files_from_dicom"
	}
	return filepath.Join(home, "png_files_from_dicom")
}

func newMinIOStorage(logger *zap.Logger) *storage.MinIOStorage {
	if !viper.GetBool("minio.enabled") {
		return nil
	}

	utils.LogInfo(viper.GetString("minio.uri"))
	minioClient, err := minio.New(
		viper.GetString("minio.uri"),
		&minio.Options{
			Creds: credentials.NewStaticV4(viper.GetString("minio.access_key_id"), viper.GetString("minio.secret_access_key"), ""),
		})
	if err != nil {
		panic("Cannot connect to MinIO")
	}

	minioStorage := storage.NewMinIOStorage(minioClient, viper.GetString("minio.bucket_name"), logger)
	utils.LogError(minioStorage.EnsureBucket())
	return minioStorage
}

func main() {
	env := "development"
	if value := os.Getenv(constants.ENV); value != "" {
		env = value
	}
	utils.LogInfo(fmt.Sprintf("converter is running in [%s] mode", env))
	initConfigs(env)

	logger := newLogger()
	minioStorage := newMinIOStorage(logger)

	// With file or directory arguments we are a one-shot batch
	// converter; without them we serve the HTTP API.
	if args := os.Args[1:]; len(args) > 0 {
		runBatch(args, minioStorage, logger)
		return
	}

	route := gin.Default()

	route.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"POST", "GET"},
		AllowHeaders:     []string{"Access-Control-Allow-Headers", "Origin", "Accept", "X-Requested-With", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	route.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	convertAPI := server.NewConvertAPI(minioStorage, logger)
	convertAPI.InitRoute(route, "conversions")

	route.Run("0.0.0.0:" + viper.GetString("webserver.port"))
}

func runBatch(args []string, minioStorage *storage.MinIOStorage, logger *zap.Logger) {
	files, err := utils.ListInputFiles(args)
	if err != nil {
		utils.LogFatal(err)
	}
	if len(files) == 0 {
		utils.LogInfo("no DICOM files to convert")
		return
	}

	// Ctrl-C stops the batch the way the old desktop Stop button did:
	// no new files are picked up, in-flight conversions finish.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := batch.NewRunner(
		viper.GetInt("converter.workers"),
		viper.GetString("converter.output_path"),
		minioStorage,
		logger,
	)
	runner.Add(files...)

	sum := runner.Run(ctx)
	if sum.Failed > 0 {
		os.Exit(1)
	}
}
