// Command passwd sets a user's bcrypt password hash by email.
//
// Usage:
//
//	passwd EMAIL PASSWORD
package main

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/promodeagro/packer-cli/auth"
	"github.com/promodeagro/packer-cli/store"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: passwd EMAIL PASSWORD")
		os.Exit(1)
	}
	email, password := os.Args[1], os.Args[2]

	_ = godotenv.Load()
	ctx := context.Background()

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "ap-south-1"
	}
	awscfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load aws config:", err)
		os.Exit(1)
	}

	cfg := store.DefaultConfig()
	if v := os.Getenv("PACKER_USERS_TABLE"); v != "" {
		cfg.UsersTable = v
	}

	svc := auth.NewService(store.New(dynamodb.NewFromConfig(awscfg), cfg), cfg)
	if err := svc.SetPassword(ctx, email, password); err != nil {
		fmt.Fprintln(os.Stderr, "set password:", err)
		os.Exit(2)
	}
	fmt.Println("Password set for:", email)
}
