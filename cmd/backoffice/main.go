package main

import (
	"context"
	"fmt"
	"os"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const appName string = "backoffice"

func main() {
	appVersion := buildinfo.SourceVersion()

	logFormat := env.GetVariableOrDefault(context.Background(), "BACKOFFICE_LOG_FORMAT", "text")

	ctx, _, cleanup := o11y.Init(context.Background(), appName, appVersion, logFormat)
	defer cleanup()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
