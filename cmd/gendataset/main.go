// Command gendataset generates demo data for the scanner: synthetic pharmacy
// invoice images (PNG, with a Code128 invoice-ID barcode) plus the reference
// dataset as CSV and a JSON manifest, split into train and test sets.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type drug struct {
	Brand    string
	Generic  string
	Strength string
	IsBanned bool
}

// Fixed drug pool: four banned generics, six clean ones.
var drugPool = []drug{
	{"Analgin", "Metamizole", "500mg", true},
	{"Nimesulide DT", "Nimesulide", "100mg", true},
	{"Corex", "Codeine + CPM", "10mg/4mg", true},
	{"Saridon", "Paracetamol Combo", "250/150/50mg", true},
	{"Dolo 650", "Paracetamol", "650mg", false},
	{"Cefixime 200", "Cefixime", "200mg", false},
	{"Azithral 500", "Azithromycin", "500mg", false},
	{"Cetcip", "Cetirizine", "10mg", false},
	{"Oflox-OZ", "Ofloxacin + Ornidazole", "200/500mg", false},
	{"Amoxyclav", "Amoxicillin + Clavulanic Acid", "500/125mg", false},
}

var pharmacies = []string{
	"CityMed Pharmacy",
	"WellCare Medicals",
	"GreenLife Drug House",
	"TrustCare Pharma",
	"HealthPlus Medical Store",
}

type invoiceItem struct {
	Brand     string  `json:"brand"`
	Generic   string  `json:"generic"`
	Strength  string  `json:"strength"`
	Batch     string  `json:"batch"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
	GST       int     `json:"gst"`
	GSTAmount float64 `json:"gst_amount"`
	LineTotal float64 `json:"line_total"`
	IsBanned  bool    `json:"is_banned"`
}

type invoiceRecord struct {
	InvoiceID string        `json:"invoice_id"`
	Image     string        `json:"image"`
	Pharmacy  string        `json:"pharmacy"`
	Date      string        `json:"date"`
	Doctor    string        `json:"doctor"`
	Items     []invoiceItem `json:"items"`
}

func main() {
	outDir := flag.String("out", "output", "output directory")
	numTrain := flag.Int("train", 100, "number of train invoices")
	numTest := flag.Int("test", 50, "number of test invoices")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if err := os.RemoveAll(*outDir); err != nil {
		log.Fatalf("Failed to clear output dir: %v", err)
	}

	log.Println("Generating TRAIN dataset...")
	if err := generateSplit(rng, filepath.Join(*outDir, "train"), "TRAIN", "train_dataset", *numTrain); err != nil {
		log.Fatalf("Train generation failed: %v", err)
	}

	log.Println("Generating TEST dataset...")
	if err := generateSplit(rng, filepath.Join(*outDir, "test"), "TEST", "test_dataset", *numTest); err != nil {
		log.Fatalf("Test generation failed: %v", err)
	}

	log.Printf("Dataset generation completed, output folder: %s", *outDir)
}

func generateSplit(rng *rand.Rand, dir, prefix, name string, count int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	records := make([]invoiceRecord, 0, count)
	for i := 0; i < count; i++ {
		invID := fmt.Sprintf("%s-%04d", prefix, i+1)
		rec, err := generateInvoice(rng, invID, dir)
		if err != nil {
			return fmt.Errorf("invoice %s: %w", invID, err)
		}
		records = append(records, rec)
	}

	return saveDataset(records, dir, name)
}

func generateInvoice(rng *rand.Rand, invID, dir string) (invoiceRecord, error) {
	date := time.Now().AddDate(0, 0, -(rng.Intn(365) + 1))

	rec := invoiceRecord{
		InvoiceID: invID,
		Image:     filepath.Join(dir, invID+".png"),
		Pharmacy:  pharmacies[rng.Intn(len(pharmacies))],
		Date:      date.Format("2006-01-02"),
		Doctor:    fmt.Sprintf("DR-%06d", rng.Intn(1000000)),
	}

	nItems := rng.Intn(3) + 2
	for i := 0; i < nItems; i++ {
		d := drugPool[rng.Intn(len(drugPool))]
		qty := rng.Intn(3) + 1
		price := 30 + rng.Float64()*370
		gst := []int{5, 12, 18}[rng.Intn(3)]

		gstAmount := price * float64(qty) * float64(gst) / 100
		rec.Items = append(rec.Items, invoiceItem{
			Brand:     d.Brand,
			Generic:   d.Generic,
			Strength:  d.Strength,
			Batch:     randomBatch(rng),
			Qty:       qty,
			Price:     price,
			GST:       gst,
			GSTAmount: gstAmount,
			LineTotal: price*float64(qty) + gstAmount,
			IsBanned:  d.IsBanned,
		})
	}

	if err := renderInvoicePNG(rec); err != nil {
		return invoiceRecord{}, err
	}
	return rec, nil
}

func randomBatch(rng *rand.Rand) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 8)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}

// renderInvoicePNG rasterizes the invoice as a scanned-page stand-in: plain
// text lines plus a Code128 barcode carrying the invoice ID.
func renderInvoicePNG(rec invoiceRecord) error {
	const width, height = 760, 560

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	lines := []string{
		rec.Pharmacy,
		"GSTIN: 32ABCDE1234F1Z",
		"Address: Kochi, Kerala",
		"Doctor Prescription: " + rec.Doctor,
		"",
		"Invoice No: " + rec.InvoiceID,
		"Date: " + rec.Date,
		"",
		fmt.Sprintf("%-3s %-16s %-30s %-12s %-10s %-4s %-10s %-5s %s",
			"#", "Brand", "Generic", "Strength", "Batch", "Qty", "MRP", "GST%", "Line Total"),
	}

	var totalAmount, totalGST float64
	for idx, it := range rec.Items {
		lines = append(lines, fmt.Sprintf("%-3d %-16s %-30s %-12s %-10s %-4d Rs.%-7.2f %-5d Rs.%.2f",
			idx+1, it.Brand, it.Generic, it.Strength, it.Batch, it.Qty, it.Price, it.GST, it.LineTotal))
		totalAmount += it.LineTotal
		totalGST += it.GSTAmount
	}

	lines = append(lines,
		"",
		fmt.Sprintf("Grand Total: Rs.%.2f", totalAmount),
		fmt.Sprintf("GST Total: Rs.%.2f", totalGST),
		"",
		"Authorized Signature",
		"____________________",
	)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	y := 30
	for _, line := range lines {
		drawer.Dot = fixed.P(20, y)
		drawer.DrawString(line)
		y += 16
	}

	if err := drawBarcode(img, rec.InvoiceID, 20, y+10); err != nil {
		return fmt.Errorf("failed to render barcode: %w", err)
	}

	f, err := os.Create(rec.Image)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

func drawBarcode(dst *image.RGBA, content string, x, y int) error {
	writer := oned.NewCode128Writer()
	matrix, err := writer.Encode(content, gozxing.BarcodeFormat_CODE_128, 240, 40, nil)
	if err != nil {
		return err
	}

	for my := 0; my < matrix.GetHeight(); my++ {
		for mx := 0; mx < matrix.GetWidth(); mx++ {
			if matrix.Get(mx, my) {
				dst.Set(x+mx, y+my, color.Black)
			}
		}
	}
	return nil
}

func saveDataset(records []invoiceRecord, dir, name string) error {
	manifest, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), manifest, 0o644); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, name+".csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"invoice_id", "image", "pharmacy", "date", "doctor", "brand",
		"generic", "strength", "batch", "qty", "price", "gst",
		"line_total", "is_banned",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		for _, it := range rec.Items {
			row := []string{
				rec.InvoiceID,
				rec.Image,
				rec.Pharmacy,
				rec.Date,
				rec.Doctor,
				it.Brand,
				it.Generic,
				it.Strength,
				it.Batch,
				fmt.Sprintf("%d", it.Qty),
				fmt.Sprintf("%.2f", it.Price),
				fmt.Sprintf("%d", it.GST),
				fmt.Sprintf("%.2f", it.LineTotal),
				fmt.Sprintf("%t", it.IsBanned),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}
