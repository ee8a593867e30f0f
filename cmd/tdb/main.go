package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/tobsdb/tdbrel/internal/auth"
	"github.com/tobsdb/tdbrel/internal/config"
	"github.com/tobsdb/tdbrel/internal/conn"
	"github.com/tobsdb/tdbrel/internal/query"
	"github.com/tobsdb/tdbrel/pkg"
)

func main() {
	flags := config.Flags("tdb")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		pkg.FatalLog(err)
	}
	pkg.SetLogLevel(cfg.Level())

	db := query.NewDB()
	if cfg.Schema != "" {
		data, err := os.ReadFile(cfg.Schema)
		if err != nil {
			pkg.FatalLog("reading schema;", err)
		}
		created, err := db.ApplySchema(string(data))
		if err != nil {
			pkg.FatalLog("applying schema;", err)
		}
		pkg.InfoLog("loaded schema from", cfg.Schema, "with tables", created)
	}

	users, err := newUsers(cfg)
	if err != nil {
		pkg.FatalLog(err)
	}

	if err := conn.NewServer(db, users).Listen(cfg.Port); err != nil {
		pkg.FatalLog(err)
	}
}

func newUsers(cfg *config.TdbConfig) (*auth.Users, error) {
	users := auth.NewUsers()
	accounts := []struct {
		name, password string
		role           auth.TdbUserRole
	}{
		{cfg.Username, cfg.Password, auth.TdbUserRoleAdmin},
		{cfg.ReaderUsername, cfg.ReaderPassword, auth.TdbUserRoleReadOnly},
	}
	for _, a := range accounts {
		if a.name == "" {
			continue
		}
		user, err := auth.NewUser(a.name, a.password, a.role)
		if err != nil {
			return nil, err
		}
		if err := users.Add(user); err != nil {
			return nil, err
		}
		pkg.DebugLog("registered", a.role, "user", a.name)
	}
	return users, nil
}
