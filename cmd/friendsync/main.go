// Command friendsync triggers a cache resync on a running relationship
// service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"gofriends/internal/common"
	"gofriends/internal/relationship/handler"
	"gofriends/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	defer logger.Sync()

	addr := flag.String("addr", "localhost:7005", "relationship service gRPC address")
	token := flag.String("token", os.Getenv("FRIENDSYNC_TOKEN"), "admin bearer token; minted from JWT_SECRET_KEY when empty")
	account := flag.Int64("account", 0, "limit the resync to one account id")
	rebuild := flag.Bool("rebuild", false, "clear the covered cache keys before reloading")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall deadline")
	flag.Parse()

	if *token == "" {
		secret := os.Getenv("JWT_SECRET_KEY")
		if secret == "" {
			fmt.Fprintln(os.Stderr, "friendsync: -token or JWT_SECRET_KEY is required")
			os.Exit(2)
		}
		minted, err := common.NewTokenIssuer(secret, time.Hour).GenerateToken(0, "friendsync", true)
		if err != nil {
			logger.Fatal("Failed to mint admin token", err)
		}
		*token = minted
	}

	conn, err := grpc.NewClient(*addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(handler.CodecName)),
	)
	if err != nil {
		logger.Fatal("Failed to dial relationship service", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+*token)

	reply, err := handler.NewRelationshipServiceClient(conn).Resync(ctx, &handler.ResyncRequest{
		AccountID: *account,
		Rebuild:   *rebuild,
	})
	if err != nil {
		logger.Fatal("Resync failed", err)
	}

	fmt.Printf("scope=%s friendships=%d requests=%d took=%dms\n",
		reply.Scope, reply.Friendships, reply.Requests, reply.DurationMS)
}
