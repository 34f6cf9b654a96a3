// token emite un JWT para operar las rutas de escritura cuando JWT_SECRET está configurado.
//
// Uso: go run ./cmd/token [-role admin|editor] [-sub operador] [-minutes 480]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/stock-dashboard/pkg/config"
	"github.com/jhoicas/stock-dashboard/pkg/jwt"
)

func main() {
	role := flag.String("role", jwt.RoleEditor, "rol: admin | editor")
	sub := flag.String("sub", "operador", "subject del token")
	minutes := flag.Int("minutes", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	if *role != jwt.RoleAdmin && *role != jwt.RoleEditor {
		fmt.Fprintf(os.Stderr, "rol desconocido: %s\n", *role)
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if !cfg.JWT.Enabled() {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no configurado")
		os.Exit(1)
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *sub, *role, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
