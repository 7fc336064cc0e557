// seed inserts a handful of demo socios into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/ErlanBelekov/socios/internal/infrastructure/postgres"
)

var socios = []domain.Member{
	{Email: "ana.garcia@socios.test", Name: "Ana García López", Phone: "600111222",
		Profile: map[string]any{"cuota": "anual", "alta": "2019"}},
	{Email: "luis.martin@socios.test", Name: "Luis Martín", Phone: "600333444",
		Profile: map[string]any{"cuota": "mensual"}},
	{Email: "marta.ruiz@socios.test", Name: "Marta Ruiz Sanz", Phone: "600555666"},
	{Email: "jorge.diaz@socios.test", Name: "Jorge Díaz", Phone: "600777888",
		Profile: map[string]any{"junta": true}},
	{Email: "seed@test.local", Name: "Seed User", Phone: "600000000"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		log.Fatalf("migrate: %v", err)
	}

	repo := postgres.NewMemberRepository(pool)

	// Existing emails are skipped so re-runs are idempotent.
	var inserted, skipped int
	var created []*domain.Member
	for i := range socios {
		m, err := repo.Create(ctx, &socios[i])
		if errors.Is(err, domain.ErrDuplicateEmail) {
			skipped++
			continue
		}
		if err != nil {
			pool.Close()
			log.Fatalf("insert socio %s: %v", socios[i].Email, err)
		}
		created = append(created, m)
		inserted++
	}

	pool.Close()

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Socios created: %d  (skipped %d already existing)\n", inserted, skipped)
	for _, m := range created {
		fmt.Printf("    %-4d %s\n", m.ID, m.Email)
	}

	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: request a magic link (EMAIL_PROVIDER=log prints it to the server log):")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/magic-link \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\"}'\n", socios[0].Email)
	fmt.Println()
	fmt.Println("  Step 2: open the link from the log:")
	fmt.Println()
	fmt.Println("    curl -s 'http://localhost:8080/auth/verify?token=TOKEN'")
	fmt.Println("    # {\"ver\":1,\"id\":...,\"email\":...,\"expira_en\":...}")
	fmt.Println()
	fmt.Println("  Step 3: use the same token as a session:")
	fmt.Println()
	fmt.Println("    curl -s http://localhost:8080/auth/session -H \"Authorization: Bearer TOKEN\"")
	fmt.Println()
	fmt.Println("  The public directory is masked:")
	fmt.Println()
	fmt.Println("    curl -s http://localhost:8080/socios")
}
