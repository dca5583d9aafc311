package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"hrdesk/internal/config"
)

func main() {
	envFile := flag.String("env-file", "", "Env file to read (default: $ENV_FILE or .env.dev)")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	var opts []config.Option
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		if *outputJSON {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]any{
				"ok":        false,
				"variables": config.Variables(err),
				"error":     err.Error(),
			})
		} else {
			fmt.Fprintln(os.Stderr, "Configuration invalid")
			fmt.Fprintln(os.Stderr, "=====================")
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	red := cfg.Redacted()
	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{"ok": true, "config": red})
		return
	}

	fmt.Println("Configuration OK")
	fmt.Println("================")
	fmt.Printf("DATABASE_URL:          %s\n", red.DatabaseURL)
	fmt.Printf("database name:         %s\n", cfg.DatabaseName())
	fmt.Printf("secret_key:            %s\n", red.SecretKey)
	fmt.Printf("sender_email:          %s\n", red.SenderEmail)
	fmt.Printf("sender_password:       %s\n", red.SenderPassword)
	fmt.Printf("email_template:        %s\n", red.EmailTemplate)
	fmt.Printf("admin_email_template:  %s\n", red.AdminEmailTemplate)
	fmt.Printf("LLM_ADDR:              %s\n", red.LLMAddr)
	fmt.Printf("listen:                %s (%s)\n", cfg.Addr(), cfg.AppEnv)
}
