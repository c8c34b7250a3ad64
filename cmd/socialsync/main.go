package main

import (
	"context"
	"log"
	"os"

	"github.com/dbakhtin/socialsync/internal/app"
	"github.com/dbakhtin/socialsync/internal/buildinfo"
	"github.com/dbakhtin/socialsync/internal/config"
)

// subcommand returns the first non-flag argument, if any. Flags are
// handled by the config package and may appear before or after it.
func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) > 0 && arg[0] == '-' {
			if arg == "-a" || arg == "-c" || arg == "-config" || arg == "-d" ||
				arg == "-i" || arg == "-t" || arg == "-r" || arg == "-w" {
				i++ // skip the flag's value
			}
			continue
		}
		return arg
	}
	return ""
}

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	a, err := app.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer a.Close()

	switch subcommand(os.Args[1:]) {
	case "list":
		err = a.ListQueued(ctx, os.Stdout)
	case "status":
		err = a.Status(ctx, os.Stdout)
	case "drain":
		err = a.DrainOnce(ctx)
	default:
		err = a.Run(ctx)
	}

	if err != nil {
		log.Fatalf("%v", err)
	}
}
