// Package apikey genera y hashea los tokens opacos del sistema: credenciales
// de marca (br_), de producto (prd_) y valores de license key. Solo el hash
// sha256 se persiste; el token en claro se muestra una única vez.
package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const randomLen = 32

const randomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewBrandToken token de marca: br_<slug del nombre>_<32 aleatorios>.
func NewBrandToken(name string) string {
	return "br_" + Slug(name) + "_" + randomString(randomLen)
}

// NewProductToken token de producto: prd_<slug del código>_<32 aleatorios>.
func NewProductToken(code string) string {
	return "prd_" + Slug(code) + "_" + randomString(randomLen)
}

// NewLicenseKeyValue valor de license key visible para el cliente: UUID en
// mayúsculas (64 chars máximo en storage, globalmente único).
func NewLicenseKeyValue() string {
	return strings.ToUpper(uuid.New().String())
}

// Hash sha256 hex del token. Determinista: permite el lookup por hash sin
// guardar nunca el token en claro.
func Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Slug normaliza un nombre a minúsculas ASCII con guiones bajos: descompone
// acentos (NFD), descarta las marcas combinantes y reemplaza todo lo no
// alfanumérico por '_'.
func Slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}
	var b strings.Builder
	lastUnderscore := true // evita '_' inicial
	for _, r := range strings.ToLower(ascii) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// randomString cadena alfanumérica criptográficamente aleatoria.
func randomString(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read no falla en plataformas soportadas; si falla no hay
		// fuente de entropía utilizable y no debemos emitir credenciales.
		panic("apikey: sin entropía disponible: " + err.Error())
	}
	out := make([]byte, n)
	for i, c := range buf {
		out[i] = randomAlphabet[int(c)%len(randomAlphabet)]
	}
	return string(out)
}
