// Package main runs the interactive EcoTrack client shell against a
// waste-management backend.
package main

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/osanchezp/ecotrack/internal/config"
	"github.com/osanchezp/ecotrack/internal/controller"
	"github.com/osanchezp/ecotrack/internal/gateway"
	"github.com/osanchezp/ecotrack/internal/logging"
	"github.com/osanchezp/ecotrack/internal/models"
	"github.com/osanchezp/ecotrack/internal/session"
	"github.com/osanchezp/ecotrack/internal/workflow"
)

var (
	version   string
	buildDate string
)

// app bundles the controllers the shell dispatches to.
type app struct {
	auth      *controller.AuthController
	dumpsters *controller.DumpsterController
	assign    *workflow.Assignment
	scanner   *bufio.Scanner
}

// repl runs the interactive shell loop.
func (a *app) repl() {
	for {
		fmt.Print("ecotrack> ")
		if !a.scanner.Scan() {
			break
		}
		line := strings.TrimSpace(a.scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		ctx := context.Background()
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, login <email>, logout, whoami, list, create <location> <postal> <capacity> <fill>, fill <id> <amount>, usage <id> <start> <end>, search <postal> <date>, plants, assign <id>, exit")
		case "login":
			a.login(ctx, args)
		case "logout":
			if err := a.auth.Logout(ctx); err != nil {
				fmt.Println("logout:", err)
			} else {
				fmt.Println("Logged out")
			}
		case "whoami":
			if a.auth.HasActiveSession() {
				fmt.Println(a.auth.CurrentUserEmail())
			} else {
				fmt.Println("Not logged in")
			}
		case "list":
			a.list(ctx)
		case "create":
			a.create(ctx, args)
		case "fill":
			a.updateFill(ctx, args)
		case "usage":
			a.usage(ctx, args)
		case "search":
			a.search(ctx, args)
		case "plants":
			a.plants(ctx)
		case "assign":
			a.assignPlant(ctx, args)
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func (a *app) login(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: login <email>")
		return
	}
	fmt.Print("Password: ")
	if !a.scanner.Scan() {
		return
	}
	password := a.scanner.Text()
	if err := a.auth.Login(ctx, args[1], password); err != nil {
		fmt.Println("login:", err)
		return
	}
	fmt.Println("Logged in as", a.auth.CurrentUserEmail())
}

func (a *app) list(ctx context.Context) {
	dumpsters, err := a.dumpsters.GetAllDumpsters(ctx)
	if err != nil {
		fmt.Println("list:", err)
		return
	}
	if len(dumpsters) == 0 {
		fmt.Println("No dumpsters")
		return
	}
	for _, d := range dumpsters {
		printDumpster(d)
	}
}

func printDumpster(d models.Dumpster) {
	id := "-"
	if d.ID != nil {
		id = strconv.FormatInt(*d.ID, 10)
	}
	plant := "-"
	if d.AssignedPlant != nil {
		plant = d.AssignedPlant.Name
	}
	fmt.Printf("#%s  %s (%d)  %d/%dL (%.0f%%)  %s  plant: %s\n",
		id, d.Location, d.PostalCode, d.CurrentFill, d.Capacity,
		d.FillPercentage(), d.FillLevel(), plant)
}

func (a *app) create(ctx context.Context, args []string) {
	if len(args) < 5 {
		fmt.Println("Usage: create <location> <postal> <capacity> <fill>")
		return
	}
	postal, err1 := strconv.Atoi(args[len(args)-3])
	capacity, err2 := strconv.Atoi(args[len(args)-2])
	fill, err3 := strconv.Atoi(args[len(args)-1])
	if err1 != nil || err2 != nil || err3 != nil {
		fmt.Println("postal, capacity, and fill must be integers")
		return
	}
	location := strings.Join(args[1:len(args)-3], " ")
	created, err := a.dumpsters.CreateDumpster(ctx, location, postal, capacity, fill)
	if err != nil {
		fmt.Println("create:", err)
		return
	}
	fmt.Println("Created:")
	printDumpster(*created)
}

func (a *app) updateFill(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Println("Usage: fill <id> <amount>")
		return
	}
	id, err1 := strconv.ParseInt(args[1], 10, 64)
	amount, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		fmt.Println("id and amount must be integers")
		return
	}
	if err := a.dumpsters.UpdateDumpsterFill(ctx, id, amount); err != nil {
		fmt.Println("fill:", err)
		return
	}
	fmt.Println("Updated")
}

func (a *app) usage(ctx context.Context, args []string) {
	if len(args) < 4 {
		fmt.Println("Usage: usage <id> <YYYY-MM-DD> <YYYY-MM-DD>")
		return
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("id must be an integer")
		return
	}
	start, err := models.ParseDate(args[2])
	if err != nil {
		fmt.Println("usage:", err)
		return
	}
	end, err := models.ParseDate(args[3])
	if err != nil {
		fmt.Println("usage:", err)
		return
	}
	records, err := a.dumpsters.GetDumpsterUsage(ctx, id, start, end)
	if err != nil {
		fmt.Println("usage:", err)
		return
	}
	if len(records) == 0 {
		fmt.Println("No usage records")
		return
	}
	for _, rec := range records {
		fmt.Printf("%s  ~%d containers  %s\n",
			rec.Date, rec.EstimatedContainers, models.ParseFillLevel(rec.FillLevelTag))
	}
}

func (a *app) search(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Println("Usage: search <postal> <YYYY-MM-DD>")
		return
	}
	postal, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Println("postal must be an integer")
		return
	}
	date, err := models.ParseDate(args[2])
	if err != nil {
		fmt.Println("search:", err)
		return
	}
	dumpsters, err := a.dumpsters.SearchDumpstersByPostalCodeAndDate(ctx, postal, date)
	if err != nil {
		fmt.Println("search:", err)
		return
	}
	if len(dumpsters) == 0 {
		fmt.Println("No dumpsters found")
		return
	}
	for _, d := range dumpsters {
		printDumpster(d)
	}
}

func (a *app) plants(ctx context.Context) {
	plants, err := a.dumpsters.GetAllRecyclingPlants(ctx)
	if err != nil {
		fmt.Println("plants:", err)
		return
	}
	if len(plants) == 0 {
		fmt.Println("No recycling plants")
		return
	}
	for _, p := range plants {
		fmt.Printf("%s  %s (%d)  %d/%dL  %d assigned\n",
			p.Name, p.Location, p.PostalCode, p.CurrentFill, p.MaxCapacity, len(p.Assignments))
	}
}

func (a *app) assignPlant(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: assign <dumpster-id>")
		return
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("id must be an integer")
		return
	}
	result, err := a.assign.Run(ctx, id)
	switch result.State {
	case workflow.StateNoPlantsAvailable:
		fmt.Println("There are no recycling plants available")
	case workflow.StateCancelled:
		fmt.Println("Assignment cancelled")
	case workflow.StateCommitted:
		fmt.Printf("Plant %q assigned to dumpster #%d\n", result.Plant.Name, id)
	default:
		fmt.Println("assign:", err)
	}
}

// promptSelector asks the user to pick a plant on stdin.
type promptSelector struct {
	scanner *bufio.Scanner
}

func (p *promptSelector) ChoosePlant(options []workflow.PlantOption) (string, bool) {
	fmt.Println("Select a recycling plant:")
	for i, option := range options {
		fmt.Printf("  %d) %s\n", i+1, option.Label())
	}
	fmt.Print("Choice (empty to cancel): ")
	if !p.scanner.Scan() {
		return "", false
	}
	input := strings.TrimSpace(p.scanner.Text())
	if input == "" {
		return "", false
	}
	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(options) {
		fmt.Println("Invalid choice")
		return "", false
	}
	return options[choice-1].Name, true
}

func main() {
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	fmt.Printf("EcoTrack Client\nVersion: %s\nBuild Date: %s\n",
		cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))

	logger, err := logging.NewLogger(options.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	httpClient := &http.Client{Timeout: options.HTTPTimeout()}
	store := session.NewStore()
	scanner := bufio.NewScanner(os.Stdin)

	authGateway := gateway.NewAuthGateway(options.BaseURL, httpClient, logger)
	dumpsterGateway := gateway.NewDumpsterGateway(options.BaseURL, httpClient, logger)
	plantGateway := gateway.NewPlantGateway(options.BaseURL, httpClient, logger)

	auth := controller.NewAuthController(authGateway, store, logger)
	dumpsters := controller.NewDumpsterController(dumpsterGateway, plantGateway, store, logger)
	assign := workflow.NewAssignment(dumpsters, &promptSelector{scanner: scanner}, clockwork.NewRealClock(), logger)

	shell := &app{auth: auth, dumpsters: dumpsters, assign: assign, scanner: scanner}
	shell.repl()

	if auth.HasActiveSession() {
		if err := auth.Logout(context.Background()); err != nil {
			logger.Warn("logout on exit failed", zap.Error(err))
		}
	}
}
