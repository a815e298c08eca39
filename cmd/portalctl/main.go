// Command portalctl is a terminal front end for the portal data layer. It
// exists for operators and for exercising the stack end to end against a
// real backend: log in, inspect rosters and orders, watch the bus feed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/viola-academy/portal-client/adminops"
	"github.com/viola-academy/portal-client/busfeed"
	"github.com/viola-academy/portal-client/config"
	"github.com/viola-academy/portal-client/pkg/logger"
	"github.com/viola-academy/portal-client/portal"
	"github.com/viola-academy/portal-client/prefs"
	"github.com/viola-academy/portal-client/timetable"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: portalctl <command> [args]

commands:
  login <parent|teacher|admin> <id> <password>
  logout
  whoami
  students
  orders
  bus
  bus-watch
  backup`)
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	base := logrus.New()
	base.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		base.SetLevel(level)
	}
	log := logger.New(base, "portalctl")

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	store := prefs.NewStore(backend, cfg.PrefsNamespace, logger.New(base, "prefs"))

	client, err := portal.New(portal.Config{
		BaseURL:           cfg.APIBaseURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, store, logger.New(base, "portal"))
	if err != nil {
		return err
	}
	client.Session().SetLogoutHook(func(surface string) {
		log.Warnf("session ended, next stop: %s", surface)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	command, rest := args[0], args[1:]
	switch command {
	case "login":
		return cmdLogin(ctx, client, rest)
	case "logout":
		client.Session().Logout(ctx)
		return nil
	case "whoami":
		return cmdWhoami(ctx, client)
	case "students":
		return printJSON(client.Students().Get(ctx))
	case "orders":
		return printJSON(client.Orders().Get(ctx))
	case "bus":
		return cmdBus(ctx, client)
	case "bus-watch":
		return cmdBusWatch(ctx, client, cfg, log)
	case "backup":
		return cmdBackup(ctx, client, store)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func newBackend(cfg config.Config) (prefs.Backend, error) {
	switch {
	case cfg.RedisAddr != "":
		return prefs.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})), nil
	case cfg.PrefsFile != "":
		return prefs.OpenFile(cfg.PrefsFile)
	default:
		return prefs.NewMemory(), nil
	}
}

func cmdLogin(ctx context.Context, client *portal.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("usage: login <parent|teacher|admin> <id> <password>")
	}
	role, id, password := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	var (
		identity *portal.UserIdentity
		err      error
	)
	switch portal.Role(role) {
	case portal.RoleParent:
		identity, err = client.Session().LoginParent(ctx, id, password)
	case portal.RoleTeacher:
		identity, err = client.Session().LoginTeacher(ctx, id, password)
	case portal.RoleAdmin:
		identity, err = client.Session().LoginAdmin(ctx, id, password)
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", identity.Name, identity.Role)
	return nil
}

func cmdWhoami(ctx context.Context, client *portal.Client) error {
	identity, err := client.Session().CurrentUser(ctx)
	if err != nil {
		return err
	}
	if identity == nil {
		fmt.Println("not logged in")
		return nil
	}
	return printJSON(identity)
}

func cmdBus(ctx context.Context, client *portal.Client) error {
	data := client.Bus().Get(ctx)
	fmt.Println("morning:")
	for _, stop := range data.Morning {
		fmt.Printf("  %s  %s\n", timetable.FormatDisplay(stop.Time), stop.Location)
	}
	fmt.Println("evening:")
	for _, stop := range data.Evening {
		fmt.Printf("  %s  %s\n", timetable.FormatDisplay(stop.Time), stop.Location)
	}
	return nil
}

func cmdBusWatch(ctx context.Context, client *portal.Client, cfg config.Config, log *logger.Logger) error {
	watcher := busfeed.NewWatcher(client, cfg.BusPollInterval, log.WithField("component", "busfeed"))
	watcher.OnUpdate = func(u busfeed.Update) {
		fmt.Printf("[%s] %d morning stops, %d evening stops\n",
			u.At.Format("15:04:05"), len(u.Data.Morning), len(u.Data.Evening))
	}
	watcher.Start(ctx)
	defer watcher.Stop()

	<-ctx.Done()
	return nil
}

func cmdBackup(ctx context.Context, client *portal.Client, store *prefs.Store) error {
	svc := adminops.NewService(client, store, nil)
	data, err := svc.Backup(ctx)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
