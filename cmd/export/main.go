package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/nkuzn/shoply-backend/config"
	"github.com/nkuzn/shoply-backend/internal/app/repository"
	"github.com/nkuzn/shoply-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Catalog"

// Exports the product catalog, with per-product rating aggregates, to an XLSX
// file. Intended for back-office use:
//
//	go run cmd/export/main.go [output.xlsx]
func main() {
	outPath := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("2006-01-02"))
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	productRepo := repository.NewProductRepository(db.GetDB())
	commentRepo := repository.NewCommentRepository(db.GetDB())

	products, err := productRepo.FindAll()
	if err != nil {
		log.Fatal("Failed to load products:", err)
	}

	fmt.Printf("Exporting %d products to %s\n", len(products), outPath)

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		log.Fatal("Failed to create sheet:", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"ID", "Name", "Description", "Price",
		"Image URL", "Gallery URLs", "Comments", "Average Rating", "Created At",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			log.Fatal("Failed to write header:", err)
		}
	}

	for i, product := range products {
		stats, err := commentRepo.RatingStatsByProduct(product.ID)
		if err != nil {
			log.Fatal("Failed to aggregate ratings:", err)
		}

		row := i + 2
		values := []interface{}{
			product.ID,
			product.Name,
			product.Description,
			product.Price,
			product.ImageURL,
			strings.Join(product.GalleryURLs, "\n"),
			stats.Count,
			stats.Average,
			product.CreatedAt.Format(time.RFC3339),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				log.Fatal("Failed to write row:", err)
			}
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		log.Fatal("Failed to save XLSX:", err)
	}

	fmt.Println("Export completed successfully!")
}
