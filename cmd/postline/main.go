package main

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := &cli.App{
		Name:    "postline",
		Usage:   "a small blog engine with reading time estimates",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "site.yaml",
				Usage:   "site configuration file",
				EnvVars: []string{"POSTLINE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before reading the environment",
			},
		},
		Before: func(c *cli.Context) error {
			err := godotenv.Load(c.String("env-file"))
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the blog over HTTP",
				Action: serveAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address, overrides the config"},
					&cli.StringFlag{Name: "static", Value: "public", Usage: "static assets directory"},
				},
			},
			{
				Name:      "import",
				Usage:     "import markdown post files from a directory",
				ArgsUsage: "<dir>",
				Action:    importAction,
			},
			{
				Name:      "readtime",
				Usage:     "print the reading time of files (or stdin)",
				ArgsUsage: "[file...]",
				Action:    readtimeAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "html", Usage: "input is HTML; count visible text only"},
					&cli.BoolFlag{Name: "markdown", Aliases: []string{"md"}, Usage: "render markdown before counting"},
				},
			},
			{
				Name:  "version",
				Usage: "print the postline version",
				Action: func(c *cli.Context) error {
					cli.ShowVersion(c)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
