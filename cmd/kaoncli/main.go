package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/kaon3d/kaon/gpu"
	"github.com/kaon3d/kaon/gpu/caps"
	_ "github.com/kaon3d/kaon/gpu/soft"
	_ "github.com/kaon3d/kaon/gpu/vkg"
	_ "github.com/kaon3d/kaon/gpu/webgpu"
)

// kaoncli prints the capability report for this machine as JSON,
// probing the backends in the configured order.
func main() {
	godotenv.Load()
	cfg := gpu.ConfigFromEnv()

	report, err := caps.NewNegotiator(cfg.BackendOrder...).Detect(context.Background())
	if err != nil {
		panic(err)
	}

	bytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Printf("%s\n", bytes)
}
