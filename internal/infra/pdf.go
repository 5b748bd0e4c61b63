package infra

// Order ticket PDF built with go-pdf/fpdf. Receipt-sized page (74mm wide)
// with the local name, order number and date, customer block, item lines
// with their options, total and payment method. The file is written to
// storagePath/pedido_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"carta/internal/model"

	"github.com/go-pdf/fpdf"
)

const ticketAncho = 74.0

// GenerarTicketPedido writes the ticket for p and returns the file path.
// storagePath is created when missing.
func GenerarTicketPedido(p *model.Pedido, nombreLocal, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("pedido_%d.pdf", p.Numero))

	// Height grows with the number of lines so long orders stay on one page.
	alto := 90.0 + float64(len(p.Items))*9
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: ticketAncho, Ht: alto},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	contentW := ticketAncho - 8
	separador := func() {
		pdf.Ln(1)
		pdf.Line(4, pdf.GetY(), ticketAncho-4, pdf.GetY())
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(nombreLocal), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de pedido", "", 1, "C", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Pedido #%d", p.Numero)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, p.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Estado: "+p.Estado), "", 1, "L", false, 0, "")
	separador()

	pdf.CellFormat(contentW, 4, tr("Cliente: "+p.ClienteNombre), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Teléfono: "+p.ClienteTelefono), "", 1, "L", false, 0, "")
	if p.ClienteEmail != nil && *p.ClienteEmail != "" {
		pdf.CellFormat(contentW, 4, tr("Email: "+*p.ClienteEmail), "", 1, "L", false, 0, "")
	}
	separador()

	col1 := contentW * 0.56
	col2 := contentW * 0.14
	col3 := contentW * 0.30

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	for _, item := range p.Items {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(col1, 5, tr(recortar(item.Nombre, 24)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.Total.StringFixed(2), "", 1, "R", false, 0, "")
		if item.Opciones != "" {
			pdf.SetFont("Helvetica", "I", 6)
			pdf.CellFormat(contentW, 4, tr(recortar(item.Opciones, 48)), "", 1, "L", false, 0, "")
		}
	}
	separador()

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+p.Total.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr("Pago: "+p.MetodoPago), "", 1, "L", false, 0, "")
	if p.Notas != "" {
		pdf.MultiCell(contentW, 4, tr("Notas: "+p.Notas), "", "L", false)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su pedido!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func recortar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
