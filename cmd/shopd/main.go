package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Tanmay-Anand/secure-e-commerce/config"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/api"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/app"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/webserver"
	"golang.org/x/sync/errgroup"
)

var (
	configFile = flag.String("c", "/etc/secure-ecommerce.yml", "config file")
	showVer    = flag.Bool("v", false, "print version and exit")
	initDb     = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
)

var (
	BuildVersion = "dev"
	BuildTime    = ""
)

func main() {
	flag.Parse()
	if *showVer {
		fmt.Printf("secure-e-commerce %s %s\n", BuildVersion, BuildTime)
		os.Exit(0)
	}

	appConfig := config.LoadConfig(*configFile)
	application := app.NewApplication(appConfig)
	application.Init(appConfig)
	defer application.Release()

	if *initDb {
		application.InitDb()
		return
	}

	var g errgroup.Group
	g.Go(func() error {
		webserver.Init(application)
		api.InitRouter()
		return webserver.Listen()
	})
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
