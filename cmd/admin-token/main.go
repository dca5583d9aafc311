package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"hrdesk/internal/config"
	"hrdesk/internal/domain"
	"hrdesk/internal/service"
)

func main() {
	employeeID := flag.String("employee", "admin-dev", "Employee ID for the token")
	email := flag.String("email", "admin@hrdesk.local", "Email for the token")
	role := flag.String("role", string(domain.RoleAdmin), "Role: admin, hr or employee")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	if !domain.Role(*role).Valid() {
		fmt.Fprintf(os.Stderr, "Unknown role %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Sin Redis: el refresh token solo vale para este proceso.
	jwtSvc := service.NewJWTService(cfg.SecretKey, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	principal := domain.Principal{EmployeeID: *employeeID, Email: *email, Role: domain.Role(*role)}
	pair, err := jwtSvc.GeneratePair(context.Background(), principal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{
			"access_token": pair.AccessToken,
			"token_type":   pair.TokenType,
			"expires_in":   pair.ExpiresIn,
			"employee_id":  principal.EmployeeID,
			"email":        principal.Email,
			"role":         principal.Role,
		})
		return
	}

	fmt.Println("Token Generated")
	fmt.Println("===============")
	fmt.Printf("Employee: %s\n", principal.EmployeeID)
	fmt.Printf("Email:    %s\n", principal.Email)
	fmt.Printf("Role:     %s\n", principal.Role)
	fmt.Printf("Expires:  %s\n", time.Now().Add(jwtSvc.AccessTTL()).Format(time.RFC3339))
	fmt.Println()
	fmt.Println(pair.AccessToken)
	fmt.Println()
	fmt.Printf("  curl -X POST -H 'Authorization: Bearer %s...' 'http://localhost%s/admin/send-test-email?email=%s'\n", pair.AccessToken[:20], cfg.Addr(), principal.Email)
}
