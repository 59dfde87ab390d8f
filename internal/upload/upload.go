// Package upload guarda as imagens enviadas pelo painel no disco local.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	TamanhoMaximo = 5 << 20
	MaxArquivos   = 10
)

var (
	ErrTipoInvalido = errors.New("Tipo de arquivo não permitido. Use JPEG, PNG, GIF ou WebP")
	ErrMuitoGrande  = errors.New("Arquivo muito grande. O tamanho máximo é 5MB")
	ErrPasta        = errors.New("Pasta de upload inválida")
)

var extensoes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var pastas = map[string]bool{"products": true, "categories": true}

// Store salva arquivos em Dir/<pasta>/<uuid><ext> e os expõe em PublicPrefix/<pasta>/<arquivo>.
type Store struct {
	Dir          string
	PublicPrefix string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir, PublicPrefix: "/uploads"}
}

// PastaValida indica se a pasta aceita uploads.
func PastaValida(pasta string) bool {
	return pastas[pasta]
}

// Save valida tamanho e tipo (pelo conteúdo, não pela extensão) e grava o arquivo.
// Devolve a URL pública.
func (s *Store) Save(fh *multipart.FileHeader, pasta string) (string, error) {
	if !PastaValida(pasta) {
		return "", ErrPasta
	}
	if fh.Size > TamanhoMaximo {
		return "", ErrMuitoGrande
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("abrir upload: %w", err)
	}
	defer src.Close()

	cabecalho := make([]byte, 512)
	n, err := io.ReadFull(src, cabecalho)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("ler upload: %w", err)
	}
	ext, ok := extensoes[http.DetectContentType(cabecalho[:n])]
	if !ok {
		return "", ErrTipoInvalido
	}

	destDir := filepath.Join(s.Dir, pasta)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("criar pasta de upload: %w", err)
	}
	nome := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(destDir, nome))
	if err != nil {
		return "", fmt.Errorf("criar arquivo: %w", err)
	}
	defer dst.Close()

	escrito, err := io.Copy(dst, io.MultiReader(bytes.NewReader(cabecalho[:n]), io.LimitReader(src, TamanhoMaximo)))
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("gravar arquivo: %w", err)
	}
	if escrito > TamanhoMaximo {
		os.Remove(dst.Name())
		return "", ErrMuitoGrande
	}
	return path.Join(s.PublicPrefix, pasta, nome), nil
}

// Remove apaga o arquivo de uma URL devolvida por Save. URLs externas e
// arquivos que já não existem são ignorados.
func (s *Store) Remove(url string) error {
	prefixo := strings.TrimRight(s.PublicPrefix, "/") + "/"
	if !strings.HasPrefix(url, prefixo) {
		return nil
	}
	rel := strings.TrimPrefix(url, prefixo)
	if rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remover arquivo: %w", err)
	}
	return nil
}
