package util

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var DB *sql.DB
var JWTSecret string

func getDBCredentialsAndPopulateJWTSecret() (string, error) {
	if env := os.Getenv("ENV"); env == "DEV" || env == "DEV_DB" {
		var dbUser string
		var dbPass string
		var dbHost string
		var dbPort string
		var dbName string
		var sslMode string
		err := godotenv.Load()
		if err != nil {
			return "", errors.New("couldn't get environment variables")
		}
		if os.Getenv("ENV") == "DEV_DB" {
			dbUser = os.Getenv("LOCAL_DB_USER")
			dbPass = os.Getenv("LOCAL_DB_PASS")
			dbHost = os.Getenv("LOCAL_DB_HOST")
			dbPort = os.Getenv("LOCAL_DB_PORT")
			dbName = os.Getenv("LOCAL_DB_NAME")
			sslMode = os.Getenv("SSL_MODE")
		} else {
			dbUser = os.Getenv("DB_USER")
			dbPass = os.Getenv("DB_PASS")
			dbHost = os.Getenv("DB_HOST")
			dbPort = os.Getenv("DB_PORT")
			dbName = os.Getenv("DB_NAME")
			sslMode = os.Getenv("SSL_MODE")
		}

		JWTSecret = os.Getenv("JWT_SECRET")
		str := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", dbHost, dbPort, dbUser, dbPass, dbName, sslMode)
		return str, nil
	}

	// Prod: JWT secret and the connection string live in one secret payload,
	// first word is the JWT secret, the rest is the DSN.
	name := os.Getenv("DB_SECRET_NAME")
	ctx := context.Background()
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", errors.New("couldn't get cloud secret")
	}
	defer client.Close()
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	}
	result, err := client.AccessSecretVersion(ctx, req)
	if err != nil {
		log.Fatal("failed to access secret version: ", err)
	}
	words := strings.Fields(string(result.Payload.Data))
	JWTSecret = words[0]
	return strings.Join(words[1:], " "), nil
}

func DBConnectAndPopulateDBVar() error {
	connectString, err := getDBCredentialsAndPopulateJWTSecret()
	if err != nil {
		return errors.New("couldn't get credentials")
	}
	DB, err = sql.Open("postgres", connectString)
	if err != nil {
		return err
	}
	if err = DB.Ping(); err != nil {
		return err
	}
	return nil
}
