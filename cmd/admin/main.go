package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"fodinha-server/internal/config"
	"fodinha-server/pkg/db"
	"fodinha-server/pkg/profile"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var command = flag.String("c", "profile", "specifies the command (profile, top)")
var limit = flag.Int("n", 10, "number of profiles to list for top")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	dbh, err := db.Open(config.Instance().PGDSN)
	if err != nil {
		logrus.WithError(err).Fatal("could not open database")
	}
	defer dbh.Close()

	store := profile.NewStore(dbh)
	ctx := context.Background()

	switch *command {
	case "profile":
		name := flag.Arg(0)
		if name == "" {
			name, err = getInput("Name")
			if err != nil {
				logrus.WithError(err).Fatal("could not get answer")
			}
		}

		if name == "" {
			os.Exit(1)
		}

		p, err := store.Get(ctx, name)
		if errors.Is(err, profile.ErrNotFound) {
			_, _ = fmt.Fprintf(os.Stderr, "no profile for %q\n", name)
			os.Exit(1)
		} else if err != nil {
			logrus.WithError(err).Fatal("could not get profile")
		}

		printProfiles(p)
	case "top":
		profiles, err := store.Top(ctx, *limit)
		if err != nil {
			logrus.WithError(err).Fatal("could not list profiles")
		}

		printProfiles(profiles...)
	default:
		logrus.Fatalf("unknown command: %s", *command)
	}
}

// printProfiles writes a table to a terminal and JSON lines to anything else
func printProfiles(profiles ...*profile.Profile) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		enc := json.NewEncoder(os.Stdout)
		for _, p := range profiles {
			if err := enc.Encode(p); err != nil {
				logrus.WithError(err).Fatal("could not encode profile")
			}
		}

		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tPLAYED\tWON\tLAST PLAYED")
	for _, p := range profiles {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", p.Name, p.GamesPlayed, p.GamesWon, p.Updated.Format("2006-01-02 15:04"))
	}

	_ = w.Flush()
}

func getInput(question string) (string, error) {
	fmt.Printf("%s: ", question)
	reader := bufio.NewReader(os.Stdin)
	str, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	str = strings.TrimRight(str, "\r\n")

	return str, nil
}
