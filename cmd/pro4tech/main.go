package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pro4tech/assistant/internal/api"
	"github.com/pro4tech/assistant/internal/auth"
	"github.com/pro4tech/assistant/internal/config"
	"github.com/pro4tech/assistant/internal/domain"
	"github.com/pro4tech/assistant/internal/logging"
	"github.com/pro4tech/assistant/internal/service"
)

const usage = `pro4tech - terminal client for the Pro4Tech assistant platform

Usage:
  pro4tech chat                 interactive chat (default)
  pro4tech agents               list assigned agents
  pro4tech history              list stored sessions
  pro4tech history delete <id>  delete one stored session
  pro4tech history clear        delete all stored sessions
  pro4tech dashboard            access analytics summary
  pro4tech admin agents         list the full agent directory
  pro4tech admin agent add <setor> <assunto>
  pro4tech admin agent edit <id> <setor> <assunto>
  pro4tech admin agent rm <id>
  pro4tech admin users          list platform users
  pro4tech admin user add <nome> <email> <senha> [role]
  pro4tech admin user edit <id> <nome> <email>
  pro4tech admin user toggle <id>
  pro4tech admin perms <agentID> [enable|disable <userID> | clear]
  pro4tech token set <token>    store the bearer token
  pro4tech token clear          forget the stored token
`

func main() {
	// .env is optional; config falls back to real env vars
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	log, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging error:", err)
		os.Exit(1)
	}

	store := auth.NewTokenStore(cfg.Auth.TokenFile, cfg.Auth.Passphrase)

	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"chat"}
	}

	// Token management works without an authenticated context.
	if args[0] == "token" {
		if err := runToken(store, args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	authCtx := auth.NewContext(store)
	// The dashboard endpoint is unauthenticated on the platform; every
	// other command needs a usable identity.
	if args[0] != "dashboard" {
		if err := authCtx.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "not authenticated:", err)
			fmt.Fprintln(os.Stderr, "store a token with: pro4tech token set <token>")
			os.Exit(1)
		}
	}

	client := api.NewClient(cfg.API.BaseURL, authCtx, cfg.API.Timeout, log)
	ctx := context.Background()

	switch args[0] {
	case "chat":
		err = runChat(ctx, client, authCtx, log)
	case "agents":
		err = runAgents(ctx, client)
	case "history":
		err = runHistory(ctx, client, authCtx, log, args[1:])
	case "dashboard":
		err = runDashboard(ctx, client)
	case "admin":
		err = runAdmin(ctx, client, log, args[1:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runToken(store *auth.TokenStore, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: pro4tech token set <token> | clear")
	}
	switch args[0] {
	case "set":
		if len(args) < 2 {
			return fmt.Errorf("usage: pro4tech token set <token>")
		}
		if _, err := auth.ResolveUserID(args[1]); err != nil {
			return fmt.Errorf("token carries no usable identity: %w", err)
		}
		return store.Save(args[1])
	case "clear":
		return store.Clear()
	default:
		return fmt.Errorf("unknown token command %q", args[0])
	}
}

func runAgents(ctx context.Context, client *api.Client) error {
	agents, err := client.ListAssigned(ctx)
	if err != nil {
		return err
	}
	if len(agents) == 0 {
		fmt.Println("no agents assigned")
		return nil
	}
	for _, a := range agents {
		fmt.Printf("%3d  %-20s %s\n", a.ID, a.Sector, a.Subject)
	}
	return nil
}

func runHistory(ctx context.Context, client *api.Client, authCtx *auth.Context, log zerolog.Logger, args []string) error {
	coord := service.NewChatCoordinator(client, client, client, authCtx, log)
	if err := coord.RefreshHistory(ctx); err != nil {
		return err
	}
	entries := coord.History()

	if len(args) == 0 {
		if len(entries) == 0 {
			fmt.Println("no stored sessions")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-26s %s  (%s)\n", e.StorageID, e.Title, e.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	}

	switch args[0] {
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: pro4tech history delete <id>")
		}
		return coord.DeleteEntry(ctx, args[1])
	case "clear":
		results := coord.DeleteAll(ctx)
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "failed: %s: %v\n", r.Entry.StorageID, r.Err)
			}
		}
		fmt.Printf("deleted %d of %d sessions\n", len(results)-failed, len(results))
		return nil
	default:
		return fmt.Errorf("unknown history command %q", args[0])
	}
}

func runDashboard(ctx context.Context, client *api.Client) error {
	report, err := service.FetchAccessReport(ctx, client)
	if err != nil {
		return err
	}
	fmt.Printf("total accesses: %d\n", report.Total)
	for _, ac := range report.ByAgent {
		fmt.Printf("  agent %-4d %d\n", ac.AgentID, ac.Count)
	}
	for _, dc := range report.ByDay {
		fmt.Printf("  %s  %d\n", dc.Day, dc.Count)
	}
	return nil
}

func runAdmin(ctx context.Context, client *api.Client, log zerolog.Logger, args []string) error {
	admin := service.NewAdminService(client, client, client, client, log)
	if len(args) == 0 {
		return fmt.Errorf("usage: pro4tech admin agents|agent|users|user|perms")
	}
	switch args[0] {
	case "agents":
		agents, err := admin.ListAgents(ctx)
		if err != nil {
			return err
		}
		for _, a := range agents {
			fmt.Printf("%3d  %-20s %s\n", a.ID, a.Sector, a.Subject)
		}
		return nil
	case "agent":
		return runAdminAgent(ctx, admin, args[1:])
	case "users":
		users, err := admin.ListUsers(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			status := "inactive"
			if u.Active {
				status = "active"
			}
			fmt.Printf("%3d  %-25s %-30s %-8s %s\n", u.ID, u.Name, u.Email, u.Role, status)
		}
		return nil
	case "user":
		return runAdminUser(ctx, admin, args[1:])
	case "perms":
		return runAdminPerms(ctx, admin, args[1:])
	default:
		return fmt.Errorf("unknown admin command %q", args[0])
	}
}

func runAdminAgent(ctx context.Context, admin *service.AdminService, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: pro4tech admin agent add|edit|rm ...")
	}
	switch args[0] {
	case "add":
		if len(args) < 3 {
			return fmt.Errorf("usage: pro4tech admin agent add <setor> <assunto>")
		}
		agent, err := admin.CreateAgent(ctx, domain.AgentCreate{Sector: args[1], Subject: args[2]})
		if err != nil {
			return err
		}
		fmt.Printf("created agent %d\n", agent.ID)
		return nil
	case "edit":
		if len(args) < 4 {
			return fmt.Errorf("usage: pro4tech admin agent edit <id> <setor> <assunto>")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid agent id %q", args[1])
		}
		return admin.UpdateAgent(ctx, domain.Agent{ID: id, Sector: args[2], Subject: args[3]})
	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("usage: pro4tech admin agent rm <id>")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid agent id %q", args[1])
		}
		return admin.DeleteAgent(ctx, id)
	default:
		return fmt.Errorf("unknown agent command %q", args[0])
	}
}

func runAdminUser(ctx context.Context, admin *service.AdminService, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: pro4tech admin user add|edit|toggle ...")
	}
	switch args[0] {
	case "add":
		if len(args) < 4 {
			return fmt.Errorf("usage: pro4tech admin user add <nome> <email> <senha> [role]")
		}
		input := domain.UserCreate{Name: args[1], Email: args[2], Password: args[3]}
		if len(args) > 4 {
			input.Role = args[4]
		}
		user, err := admin.RegisterUser(ctx, input)
		if err != nil {
			return err
		}
		fmt.Printf("created user %d\n", user.ID)
		return nil
	case "edit":
		if len(args) < 4 {
			return fmt.Errorf("usage: pro4tech admin user edit <id> <nome> <email>")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[1])
		}
		return admin.UpdateUser(ctx, id, domain.UserUpdate{Name: args[2], Email: args[3]})
	case "toggle":
		if len(args) < 2 {
			return fmt.Errorf("usage: pro4tech admin user toggle <id>")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[1])
		}
		users, err := admin.ListUsers(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			if u.ID == id {
				return admin.ToggleUserStatus(ctx, u)
			}
		}
		return fmt.Errorf("user %d not found", id)
	default:
		return fmt.Errorf("unknown user command %q", args[0])
	}
}

func runAdminPerms(ctx context.Context, admin *service.AdminService, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: pro4tech admin perms <agentID> [enable|disable <userID> | clear]")
	}
	agentID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid agent id %q", args[0])
	}

	if len(args) == 1 {
		entries, err := admin.ListAgentUsers(ctx, agentID)
		if err != nil {
			return err
		}
		for _, e := range entries {
			mark := " "
			if e.Assigned {
				mark = "x"
			}
			fmt.Printf("  [%s] %3d  %s\n", mark, e.ID, e.Name)
		}
		return nil
	}

	switch args[1] {
	case "enable", "disable":
		if len(args) < 3 {
			return fmt.Errorf("usage: pro4tech admin perms <agentID> %s <userID>", args[1])
		}
		userID, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[2])
		}
		return admin.SetPermission(ctx, userID, args[1] == "enable")
	case "clear":
		entries, err := admin.ListAgentUsers(ctx, agentID)
		if err != nil {
			return err
		}
		results := admin.DisableAll(ctx, entries)
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "failed: %s: %v\n", r.Entry.Name, r.Err)
			}
		}
		fmt.Printf("disabled %d of %d users\n", len(results)-failed, len(results))
		return nil
	default:
		return fmt.Errorf("unknown perms command %q", args[1])
	}
}

func runChat(ctx context.Context, client *api.Client, authCtx *auth.Context, log zerolog.Logger) error {
	coord := service.NewChatCoordinator(client, client, client, authCtx, log)

	if err := coord.RefreshAgents(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "could not load agents:", err)
	}
	if err := coord.RefreshHistory(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "could not load history:", err)
	}
	if authCtx.IsAdmin() {
		_ = coord.RefreshDirectory(ctx)
	}

	in := bufio.NewScanner(os.Stdin)
	shown := 0
	for {
		switch coord.State() {
		case service.StateSelecting:
			shown = 0
			if done := selectingPrompt(ctx, coord, in); done {
				return nil
			}
		case service.StateActive:
			if done := activePrompt(ctx, coord, in, &shown); done {
				return nil
			}
		}
	}
}

func selectingPrompt(ctx context.Context, coord *service.ChatCoordinator, in *bufio.Scanner) bool {
	agents := coord.Agents()
	entries := coord.History()

	fmt.Println("\nSelecione um agente para iniciar o chat:")
	for i, a := range agents {
		fmt.Printf("  n%d  Setor: %s  Assunto: %s\n", i+1, a.Sector, a.Subject)
	}
	if len(entries) > 0 {
		fmt.Println("ou retome uma conversa:")
		for i, e := range entries {
			fmt.Printf("  r%d  %s (%s)\n", i+1, e.Title, e.CreatedAt.Format("2006-01-02"))
		}
	}
	fmt.Print("> ")

	if !in.Scan() {
		return true
	}
	line := strings.TrimSpace(in.Text())
	switch {
	case line == "/quit" || line == "/q":
		return true
	case line == "/refresh":
		_ = coord.RefreshAgents(ctx)
		_ = coord.RefreshHistory(ctx)
		return false
	case strings.HasPrefix(line, "n"):
		if i, err := strconv.Atoi(line[1:]); err == nil && i >= 1 && i <= len(agents) {
			if err := coord.StartSession(agents[i-1]); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
		}
		return false
	case strings.HasPrefix(line, "r"):
		if i, err := strconv.Atoi(line[1:]); err == nil && i >= 1 && i <= len(entries) {
			if err := coord.ResumeSession(entries[i-1]); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
		}
		return false
	default:
		return false
	}
}

func activePrompt(ctx context.Context, coord *service.ChatCoordinator, in *bufio.Scanner, shown *int) bool {
	messages := coord.Messages()
	printLog(messages[*shown:])
	*shown = len(messages)
	fmt.Print("you> ")
	if !in.Scan() {
		return true
	}
	line := strings.TrimSpace(in.Text())
	switch line {
	case "/quit", "/q":
		return true
	case "/back":
		coord.LeaveSession()
		return false
	default:
		if err := coord.Send(ctx, line); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		return false
	}
}

func printLog(messages []domain.Message) {
	for _, m := range messages {
		label := "bot"
		if m.Sender == domain.SenderUser {
			label = "you"
		}
		fmt.Printf("%s> %s\n", label, m.Text)
	}
}
