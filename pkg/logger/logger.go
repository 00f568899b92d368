// Package logger arma el logger estructurado del servicio sobre zerolog y
// ofrece el hashing de identificadores sensibles: license keys, emails e
// instance identifiers nunca viajan en claro a los logs.
package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger.
type Config struct {
	Env     string // development -> consola legible; resto -> JSON
	Service string // nombre del servicio, anotado en cada evento
	Level   string // trace, debug, info, warn, error (inválido o vacío: info)
}

// Logger wrapper sobre zerolog para inyección y consistencia.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger. En development la salida es consola legible; en
// cualquier otro entorno, JSON por línea.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	ctx := zerolog.New(w).Level(level).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	zl := ctx.Logger()

	// Redirigir el logger global de zerolog para librerías que lo usen
	log.Logger = zl

	return &Logger{zl: zl}
}

// Debug, Info, Warn, Error, Fatal delegados a zerolog.
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// HashIdentifier hashea un identificador sensible para loggearlo sin
// exponerlo: sha256(secret|valor). Con el mismo secret el hash es estable y
// correlacionable entre eventos.
func HashIdentifier(secret, value string) string {
	sum := sha256.Sum256([]byte(secret + "|" + value))
	return hex.EncodeToString(sum[:])
}

// HashPrefix primeros 8 caracteres del hash: suficiente para correlacionar
// credenciales en logs de autenticación sin revelar el hash completo.
func HashPrefix(secret, value string) string {
	return HashIdentifier(secret, value)[:8]
}
