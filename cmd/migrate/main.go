package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"donation-core/pkg/config"
	"donation-core/pkg/database"
)

func main() {
	var (
		command string
		source  string
		version int
	)
	flag.StringVar(&command, "cmd", "up", "Command to run: up, down, force, version")
	flag.StringVar(&source, "path", "file://migrations", "Migration source URL")
	flag.IntVar(&version, "v", -1, "Target version for force")
	flag.Parse()

	// 加载配置
	config.Init()
	db := config.Global.DB
	dsn := database.MigrateURL(db)

	m, err := migrate.New(source, dsn)
	if err != nil {
		log.Fatalf("Migration init failed: %v", err)
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("Migration up failed: %v", err)
		}
		log.Println("Migration up done")
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("Migration down failed: %v", err)
		}
		log.Println("Migration down done")
	case "force":
		if version < 0 {
			log.Fatalf("force requires -v")
		}
		if err := m.Force(version); err != nil {
			log.Fatalf("Migration force failed: %v", err)
		}
		log.Printf("Migration forced to version %d", version)
	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatalf("Read version failed: %v", err)
		}
		log.Printf("version=%d dirty=%v", v, dirty)
	default:
		log.Fatalf("Unknown command: %s", command)
	}
}
