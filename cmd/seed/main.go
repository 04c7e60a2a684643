package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/auth"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/config"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/db"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/models"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/projects"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedProject struct {
	CustomerName string
	Address      string
	SystemSizeKW float64
	ValueUSD     float64
	Stage        int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	samples := []seedProject{
		{CustomerName: "Dana Whitfield", Address: "214 W Monroe St, Springfield, IL, 62704", SystemSizeKW: 7.2, ValueUSD: 21600, Stage: 4},
		{CustomerName: "Luis Herrera", Address: "88 Oakdale Ave, Decatur, IL, 62521", SystemSizeKW: 10.8, ValueUSD: 31500, Stage: 7},
		{CustomerName: "Priya Natarajan", Address: "1420 Lakeshore Dr, Champaign, IL, 61821", SystemSizeKW: 6.0, ValueUSD: 18200, Stage: 12},
	}

	for _, sp := range samples {
		now := time.Now().In(cfg.Timezone)
		filter := bson.M{"customer_name": sp.CustomerName, "address": sp.Address}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":            primitive.NewObjectID().Hex(),
				"customer_name":  sp.CustomerName,
				"address":        sp.Address,
				"system_size_kw": sp.SystemSizeKW,
				"value_usd":      sp.ValueUSD,
				"stage":          sp.Stage,
				"status":         projects.StatusActive,
				"created_at":     now,
				"updated_at":     now,
			},
		}
		if _, err := cols.Projects.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed error for %s: %v", sp.CustomerName, err)
		}
	}

	username := envOrDefault("ADMIN_USER", "admin")
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Printf("seed admin: %s missing, skipping (ADMIN_PASSWORD)", username)
	} else if err := seedAdminUser(ctx, cols, username, os.Getenv("ADMIN_EMAIL"), password, cfg.Timezone); err != nil {
		log.Fatalf("seed admin error for %s: %v", username, err)
	}

	log.Println("seed completed")
}

func seedAdminUser(ctx context.Context, cols *db.Collections, username, email, password string, loc *time.Location) error {
	if cols == nil || cols.Users == nil {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now().In(loc)
	set := bson.M{
		"passwordHash": hash,
		"role":         models.UserRoleAdmin,
		"updatedAt":    now,
	}
	setOnInsert := bson.M{
		"_id":       primitive.NewObjectID().Hex(),
		"username":  username,
		"createdAt": now,
	}
	if email != "" {
		set["email"] = email
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": setOnInsert,
	}
	_, err = cols.Users.UpdateOne(ctx, bson.M{"username": username}, update, options.Update().SetUpsert(true))
	return err
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
