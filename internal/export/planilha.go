// Package export gera e lê as planilhas (xlsx) do painel.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"github.com/ericoliveiras/giovanna-flores/internal/model"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	formatoData = "02/01/2006 15:04"
)

var cabecalhoProdutos = []string{"ID", "Nome", "Descrição", "Preço", "Ativo", "Imagem", "Categorias"}

// Produtos escreve a planilha de produtos em w.
func Produtos(w io.Writer, produtos []model.Produto) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Produtos")
	if err != nil {
		return fmt.Errorf("criar aba: %w", err)
	}

	linha := sheet.AddRow()
	for _, h := range cabecalhoProdutos {
		linha.AddCell().SetValue(h)
	}

	for _, p := range produtos {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(p.ID))
		row.AddCell().SetValue(p.Nome)
		row.AddCell().SetValue(p.Descricao)
		row.AddCell().SetFloat(p.Preco.InexactFloat64())
		row.AddCell().SetValue(simNao(p.Ativo))
		row.AddCell().SetValue(p.ImagemURL)

		nomes := make([]string, 0, len(p.Categorias))
		for _, cat := range p.Categorias {
			nomes = append(nomes, cat.Nome)
		}
		row.AddCell().SetValue(strings.Join(nomes, ", "))
	}

	return file.Write(w)
}

// Carrinhos escreve a planilha de pedidos em w, um pedido por linha.
func Carrinhos(w io.Writer, carrinhos []model.Carrinho) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Pedidos")
	if err != nil {
		return fmt.Errorf("criar aba: %w", err)
	}

	headers := []string{
		"ID", "UID", "Data", "Cliente", "Telefone", "Entrega", "Endereço", "Itens", "Total",
		"Pagamento", "Troco Para", "Destinatário", "Tel. Destinatário", "Finalizado Em",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, c := range carrinhos {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(c.ID))
		row.AddCell().SetValue(c.UID)
		row.AddCell().SetValue(c.CreatedAt.Format(formatoData))
		row.AddCell().SetValue(c.NomeCliente)
		row.AddCell().SetValue(c.Telefone)
		row.AddCell().SetValue(string(c.MetodoEntrega))
		row.AddCell().SetValue(c.Endereco)

		itens := make([]string, 0, len(c.Itens))
		for _, item := range c.Itens {
			itens = append(itens, fmt.Sprintf("%dx %s", item.Quantidade, item.Produto.Nome))
		}
		row.AddCell().SetValue(strings.Join(itens, "; "))
		row.AddCell().SetFloat(c.Total.InexactFloat64())

		pagamento := ""
		if c.MetodoPagamento != nil {
			pagamento = string(*c.MetodoPagamento)
		}
		row.AddCell().SetValue(pagamento)

		troco := row.AddCell()
		if c.TrocoPara != nil {
			troco.SetFloat(c.TrocoPara.InexactFloat64())
		}
		row.AddCell().SetValue(c.NomeDestinatario)
		row.AddCell().SetValue(c.TelefoneDestinatario)

		finalizado := ""
		if c.FinalizadoEm != nil {
			finalizado = c.FinalizadoEm.Format(formatoData)
		}
		row.AddCell().SetValue(finalizado)
	}

	return file.Write(w)
}

// LinhaProduto é uma linha lida da planilha de importação. ID zero é produto novo.
type LinhaProduto struct {
	Linha     int
	ID        uint
	Nome      string
	Descricao string
	Preco     decimal.Decimal
	Ativo     bool
	ImagemURL string
}

// Importacao é o resultado da leitura: linhas válidas e linhas puladas (número da linha → motivo).
type Importacao struct {
	Produtos []LinhaProduto
	Puladas  map[int]string
}

// LerProdutos lê uma planilha no mesmo formato gerado por Produtos. A coluna
// de categorias é ignorada.
func LerProdutos(r io.ReaderAt, size int64) (*Importacao, error) {
	xlFile, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, fmt.Errorf("abrir planilha: %w", err)
	}
	if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
		return nil, fmt.Errorf("planilha vazia ou sem cabeçalho")
	}

	sheet := xlFile.Sheets[0]
	imp := &Importacao{Puladas: map[int]string{}}
	for i := 1; i < sheet.MaxRow; i++ {
		row := sheet.Rows[i]
		numero := i + 1
		get := func(index int) string {
			if row != nil && index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		nome := get(1)
		if nome == "" {
			imp.Puladas[numero] = "nome vazio"
			continue
		}
		preco, err := decimal.NewFromString(strings.ReplaceAll(get(3), ",", "."))
		if err != nil || preco.IsNegative() {
			imp.Puladas[numero] = "preço inválido"
			continue
		}

		var id uint
		if s := get(0); s != "" {
			n, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				imp.Puladas[numero] = "ID inválido"
				continue
			}
			id = uint(n)
		}

		imp.Produtos = append(imp.Produtos, LinhaProduto{
			Linha:     numero,
			ID:        id,
			Nome:      nome,
			Descricao: get(2),
			Preco:     preco.Round(2),
			Ativo:     !strings.EqualFold(get(4), "não") && !strings.EqualFold(get(4), "nao"),
			ImagemURL: get(5),
		})
	}
	return imp, nil
}

func simNao(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}
