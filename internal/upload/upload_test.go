package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
	webpHeader = []byte("RIFF\x24\x00\x00\x00WEBPVP8 ")
)

func fileHeader(t *testing.T, nome string, conteudo []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("images", nome)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(conteudo)
	w.Close()

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm.File["images"][0]
}

func TestSave(t *testing.T) {
	store := NewStore(t.TempDir())

	testes := []struct {
		nome     string
		arquivo  string
		conteudo []byte
		ext      string
	}{
		{"PNG", "flor.png", pngHeader, ".png"},
		{"GIF", "flor.gif", gifHeader, ".gif"},
		{"WebP", "flor.webp", webpHeader, ".webp"},
		{"Extensão Enganosa", "flor.txt", pngHeader, ".png"},
	}
	for _, tt := range testes {
		t.Run(tt.nome, func(t *testing.T) {
			url, err := store.Save(fileHeader(t, tt.arquivo, tt.conteudo), "products")
			if err != nil {
				t.Fatalf("erro inesperado: %v", err)
			}
			if !strings.HasPrefix(url, "/uploads/products/") || !strings.HasSuffix(url, tt.ext) {
				t.Errorf("URL inesperada: %s", url)
			}
			caminho := filepath.Join(store.Dir, "products", filepath.Base(url))
			salvo, err := os.ReadFile(caminho)
			if err != nil {
				t.Fatalf("arquivo não foi gravado: %v", err)
			}
			if !bytes.Equal(salvo, tt.conteudo) {
				t.Errorf("conteúdo gravado difere do enviado")
			}
		})
	}

	t.Run("Tipo Inválido", func(t *testing.T) {
		_, err := store.Save(fileHeader(t, "foto.png", []byte("isto é texto")), "products")
		if !errors.Is(err, ErrTipoInvalido) {
			t.Errorf("esperava ErrTipoInvalido, obteve %v", err)
		}
	})

	t.Run("Muito Grande", func(t *testing.T) {
		grande := append(append([]byte{}, pngHeader...), make([]byte, TamanhoMaximo)...)
		_, err := store.Save(fileHeader(t, "grande.png", grande), "products")
		if !errors.Is(err, ErrMuitoGrande) {
			t.Errorf("esperava ErrMuitoGrande, obteve %v", err)
		}
	})

	t.Run("Pasta Inválida", func(t *testing.T) {
		_, err := store.Save(fileHeader(t, "flor.png", pngHeader), "../etc")
		if !errors.Is(err, ErrPasta) {
			t.Errorf("esperava ErrPasta, obteve %v", err)
		}
	})
}

func TestRemove(t *testing.T) {
	store := NewStore(t.TempDir())
	url, err := store.Save(fileHeader(t, "flor.png", pngHeader), "categories")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if err := store.Remove(url); err != nil {
		t.Fatalf("Remove falhou: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir, "categories", filepath.Base(url))); !os.IsNotExist(err) {
		t.Error("arquivo deveria ter sido apagado")
	}

	for _, u := range []string{url, "https://cdn.test/foto.png", "/uploads/../segredo", ""} {
		if err := store.Remove(u); err != nil {
			t.Errorf("Remove(%q) deveria ser ignorado, obteve %v", u, err)
		}
	}
}
