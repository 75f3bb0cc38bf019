// ABOUTME: Admin CLI for storegate credential and session management
// ABOUTME: Operates directly on the SQLite store, no running server needed

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/2389/storegate/internal/auth"
	"github.com/2389/storegate/internal/config"
	"github.com/2389/storegate/internal/passphrase"
	"github.com/2389/storegate/internal/store"
)

const banner = `
      _                              _                     _           _
  ___| |_ ___  _ __ ___  __ _  __ _| |_ ___        __ _  __| |_ __ ___ (_)_ __
 / __| __/ _ \| '__/ _ \/ _' |/ _' | __/ _ \_____ / _' |/ _' | '_ ' _ \| | '_ \
 \__ \ || (_) | | |  __/ (_| | (_| | ||  __/_____| (_| | (_| | | | | | | | | | |
 |___/\__\___/|_|  \___|\__, |\__,_|\__\___|      \__,_|\__,_|_| |_| |_|_|_| |_|
                        |___/
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "create":
		err = cmdCreate(args)
	case "update":
		err = cmdUpdate(args)
	case "list":
		err = cmdList()
	case "verify":
		err = cmdVerify(args)
	case "audit":
		err = cmdAudit(args)
	case "session":
		err = cmdSession(args)
	case "revoke":
		err = cmdRevoke(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: storegate-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  create <store-id> [-p password]   Create a store credential")
	fmt.Println("  update <store-id> [-f] [-p password]  Rotate a store credential (-f creates if missing)")
	fmt.Println("  list                              List stores with credentials")
	fmt.Println("  verify <store-id>                 Check a password (prompts, hidden)")
	fmt.Println("  audit [-s store-id] [-l limit]    Show the audit trail, newest first")
	fmt.Println("  session <store-id> [-t ttl]       Issue a session token")
	fmt.Println("  revoke <token>                    Revoke a session token")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  STOREGATE_CONFIG   Config file path (default: ~/.config/storegate/config.yaml)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  storegate-admin create 42")
	fmt.Println("  storegate-admin update 42 -p 'horse-battery-staple'")
	fmt.Println("  storegate-admin audit -s 42 -l 20")
	fmt.Println()
}

// getConfigPath mirrors the server's config resolution.
func getConfigPath() string {
	if envPath := os.Getenv("STOREGATE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "storegate", "config.yaml")
}

// openServices loads the config and wires the credential and session
// services over the configured database.
func openServices() (*auth.CredentialService, *auth.SessionService, *store.SQLiteStore, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	source, err := passphrase.NewEmbeddedSource()
	if err != nil {
		s.Close()
		return nil, nil, nil, fmt.Errorf("loading wordlist: %w", err)
	}

	creds := auth.NewCredentialService(s, s, passphrase.NewGenerator(source), cfg.Auth.PassphraseWords)
	sessions := auth.NewSessionService(s, cfg.Auth.SessionTTL)
	return creds, sessions, s, nil
}

// parseBoolFlag pulls a bare "-name" out of args, returning whether it
// was present and the remaining arguments.
func parseBoolFlag(args []string, name string) (bool, []string) {
	var rest []string
	var present bool
	for _, a := range args {
		if a == name {
			present = true
			continue
		}
		rest = append(rest, a)
	}
	return present, rest
}

// parseFlag pulls "-name value" out of args, returning the value and
// the remaining positional arguments.
func parseFlag(args []string, name string) (string, []string, error) {
	var rest []string
	var value string
	for i := 0; i < len(args); i++ {
		if args[i] == name {
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("%s requires a value", name)
			}
			value = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	return value, rest, nil
}

func cmdCreate(args []string) error {
	password, rest, err := parseFlag(args, "-p")
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: storegate-admin create <store-id> [-p password]")
	}
	storeID := rest[0]

	creds, _, s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	exists, err := creds.Has(ctx, storeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("store %s already has a credential (use update to rotate)", storeID)
	}

	return provision(ctx, creds, storeID, password, "Created")
}

func cmdUpdate(args []string) error {
	force, rest := parseBoolFlag(args, "-f")
	password, rest, err := parseFlag(rest, "-p")
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: storegate-admin update <store-id> [-f] [-p password]")
	}
	storeID := rest[0]

	creds, _, s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	if !force {
		exists, err := creds.Has(ctx, storeID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("store %s has no credential (use create, or -f to force)", storeID)
		}
	}

	return provision(ctx, creds, storeID, password, "Rotated")
}

// provision sets the credential and prints the secret. The plaintext
// is shown exactly once; only the bcrypt hash is stored.
func provision(ctx context.Context, creds *auth.CredentialService, storeID, password, verb string) error {
	secret, err := creds.CreateOrRotate(ctx, storeID, password)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)

	fmt.Println()
	green.Printf("  ✓ %s credential for store %s\n", verb, storeID)
	fmt.Printf("  Passphrase: %s\n", secret)
	if password != "" && passphrase.Normalize(password) != password {
		gray.Printf("  (stored in normalized form: %s)\n", passphrase.Normalize(password))
	}
	gray.Println("  Save it now. It is not stored and cannot be recovered.")
	fmt.Println()

	return nil
}

func cmdList() error {
	creds, _, s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	summaries, err := creds.List(context.Background())
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No stores have credentials.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STORE ID\tCREATED\tUPDATED")
	for _, c := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			c.StoreID,
			c.CreatedAt.Format(time.RFC3339),
			c.UpdatedAt.Format(time.RFC3339),
		)
	}
	return w.Flush()
}

func cmdVerify(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: storegate-admin verify <store-id>")
	}
	storeID := args[0]

	fmt.Printf("Password for store %s: ", storeID)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	creds, _, s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	ok, err := creds.Verify(context.Background(), storeID, string(raw))
	if err != nil {
		return err
	}

	if ok {
		color.Green("verified")
	} else {
		color.Red("verification failed")
		os.Exit(1)
	}
	return nil
}

func cmdAudit(args []string) error {
	storeID, rest, err := parseFlag(args, "-s")
	if err != nil {
		return err
	}
	limitStr, rest, err := parseFlag(rest, "-l")
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("usage: storegate-admin audit [-s store-id] [-l limit]")
	}

	filter := store.AuditFilter{}
	if storeID != "" {
		filter.StoreID = &storeID
	}
	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return fmt.Errorf("invalid limit: %s", limitStr)
		}
		filter.Limit = limit
	}

	_, _, s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.ListAudit(context.Background(), filter)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No audit entries.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIMESTAMP\tSTORE\tACTION\tDETAILS")
	for _, e := range entries {
		details := ""
		if e.Details != nil {
			details = *e.Details
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.Timestamp.Format(time.RFC3339),
			e.StoreID,
			e.Action,
			details,
		)
	}
	return w.Flush()
}

func cmdSession(args []string) error {
	ttlStr, rest, err := parseFlag(args, "-t")
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: storegate-admin session <store-id> [-t ttl]")
	}
	storeID := rest[0]

	var ttl time.Duration
	if ttlStr != "" {
		ttl, err = time.ParseDuration(ttlStr)
		if err != nil {
			return fmt.Errorf("invalid ttl %q: %w", ttlStr, err)
		}
	}

	creds, sessions, s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	// Refuse to mint sessions for stores that were never provisioned
	exists, err := creds.Has(ctx, storeID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("store %s has no credential", storeID)
	}

	sess, err := sessions.Issue(ctx, storeID, ttl)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	fmt.Println()
	green.Printf("  ✓ Session issued for store %s\n", storeID)
	fmt.Printf("  Token:   %s\n", sess.Token)
	fmt.Printf("  Expires: %s\n", sess.ExpiresAt.Format(time.RFC3339))
	fmt.Println()

	return nil
}

func cmdRevoke(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: storegate-admin revoke <token>")
	}

	_, sessions, s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := sessions.Revoke(context.Background(), args[0]); err != nil {
		return err
	}

	fmt.Println("revoked")
	return nil
}
