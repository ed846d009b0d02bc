package repomanager

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/pressly/goose/v3"
)

func init() {
	goose.SetLogger(goose.NopLogger())
}

// gooseLogger feeds goose progress lines into a structured logger.
type gooseLogger struct {
	logger logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.logger.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.logger.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

// SetMigrationLogger routes goose output to l. Until it is called goose
// output is discarded.
func SetMigrationLogger(l logging.Logger) {
	goose.SetLogger(gooseLogger{logger: l.With("module", "migrations")})
}
