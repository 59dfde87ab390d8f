package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"github.com/ericoliveiras/giovanna-flores/internal/model"
)

func TestProdutosIdaEVolta(t *testing.T) {
	produtos := []model.Produto{
		{ID: 1, Nome: "Buquê de Rosas", Descricao: "12 rosas vermelhas", Preco: decimal.RequireFromString("49.90"), Ativo: true,
			Categorias: []model.Categoria{{Nome: "Buquês"}, {Nome: "Românticos"}}},
		{ID: 2, Nome: "Orquídea", Preco: decimal.RequireFromString("89"), Ativo: false, ImagemURL: "/uploads/products/a.webp"},
	}

	var buf bytes.Buffer
	if err := Produtos(&buf, produtos); err != nil {
		t.Fatalf("Produtos falhou: %v", err)
	}

	imp, err := LerProdutos(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("LerProdutos falhou: %v", err)
	}
	if len(imp.Puladas) != 0 {
		t.Errorf("nenhuma linha deveria ser pulada: %v", imp.Puladas)
	}
	if len(imp.Produtos) != 2 {
		t.Fatalf("esperava 2 produtos, obteve %d", len(imp.Produtos))
	}

	rosas := imp.Produtos[0]
	if rosas.ID != 1 || rosas.Nome != "Buquê de Rosas" || !rosas.Preco.Equal(decimal.RequireFromString("49.9")) || !rosas.Ativo {
		t.Errorf("linha 1 inesperada: %+v", rosas)
	}
	orquidea := imp.Produtos[1]
	if orquidea.Ativo || orquidea.ImagemURL != "/uploads/products/a.webp" || orquidea.Linha != 3 {
		t.Errorf("linha 2 inesperada: %+v", orquidea)
	}
}

func TestLerProdutosLinhasInvalidas(t *testing.T) {
	file := xlsx.NewFile()
	sheet, _ := file.AddSheet("Produtos")
	for _, linha := range [][]string{
		cabecalhoProdutos,
		{"", "Girassol", "", "25,50", "Sim"},
		{"", "", "", "10"},
		{"", "Lírio", "", "caro"},
		{"x", "Tulipa", "", "10"},
	} {
		row := sheet.AddRow()
		for _, v := range linha {
			row.AddCell().SetValue(v)
		}
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		t.Fatal(err)
	}

	imp, err := LerProdutos(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("LerProdutos falhou: %v", err)
	}
	if len(imp.Produtos) != 1 || imp.Produtos[0].Nome != "Girassol" || !imp.Produtos[0].Preco.Equal(decimal.RequireFromString("25.5")) {
		t.Errorf("produtos inesperados: %+v", imp.Produtos)
	}
	want := map[int]string{3: "nome vazio", 4: "preço inválido", 5: "ID inválido"}
	for linha, motivo := range want {
		if imp.Puladas[linha] != motivo {
			t.Errorf("linha %d: esperado %q, obteve %q", linha, motivo, imp.Puladas[linha])
		}
	}
}

func TestLerProdutosArquivoInvalido(t *testing.T) {
	conteudo := []byte("não é uma planilha")
	if _, err := LerProdutos(bytes.NewReader(conteudo), int64(len(conteudo))); err == nil {
		t.Fatal("esperava erro")
	}
}

func TestCarrinhos(t *testing.T) {
	pix := model.PagamentoPix
	agora := time.Date(2025, 5, 10, 14, 30, 0, 0, time.UTC)
	carrinhos := []model.Carrinho{{
		ID: 5, UID: "uid-5", NomeCliente: "Maria", Telefone: "98988887777",
		MetodoEntrega: model.EntregaRetirada, Total: decimal.RequireFromString("129.80"),
		Itens: []model.ItemCarrinho{
			{Quantidade: 2, Produto: model.Produto{Nome: "Buquê"}},
			{Quantidade: 1, Produto: model.Produto{Nome: "Cartão"}},
		},
		MetodoPagamento: &pix, CreatedAt: agora, FinalizadoEm: &agora,
	}}

	var buf bytes.Buffer
	if err := Carrinhos(&buf, carrinhos); err != nil {
		t.Fatalf("Carrinhos falhou: %v", err)
	}

	xlFile, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		t.Fatalf("planilha inválida: %v", err)
	}
	sheet := xlFile.Sheets[0]
	if sheet.Name != "Pedidos" || sheet.MaxRow != 2 {
		t.Fatalf("aba inesperada: %s com %d linhas", sheet.Name, sheet.MaxRow)
	}
	row := sheet.Rows[1]
	checks := map[int]string{1: "uid-5", 2: "10/05/2025 14:30", 3: "Maria", 5: "pickup", 7: "2x Buquê; 1x Cartão", 9: "pix"}
	for col, want := range checks {
		if got := row.Cells[col].String(); got != want {
			t.Errorf("coluna %d: esperado %q, obteve %q", col, want, got)
		}
	}
}
