package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gemcompare/gemcompare-backend/config"
	"github.com/gemcompare/gemcompare-backend/internal/app/model"
	"github.com/gemcompare/gemcompare-backend/internal/app/repository"
	"github.com/gemcompare/gemcompare-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Seeds the catalog. With no arguments the built-in sample catalog is
// loaded; with an XLSX path, products and quotes are imported from it.
//
//	go run cmd/seed/main.go [xlsx_file_path]
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	priceRepo := repository.NewPriceRepository(db.GetDB())

	if len(os.Args) > 1 {
		filePath := os.Args[1]
		fmt.Printf("Reading XLSX file: %s\n", filePath)
		count, err := importFromXLSX(filePath, productRepo, priceRepo)
		if err != nil {
			log.Fatal("Failed to import XLSX:", err)
		}
		fmt.Printf("Import completed: %d quotes imported\n", count)
		return
	}

	fmt.Println("Seeding built-in sample catalog...")
	if err := seedSampleCatalog(productRepo, priceRepo); err != nil {
		log.Fatal("Failed to seed sample catalog:", err)
	}
	fmt.Println("Sample catalog seeded successfully")
}

type sampleQuote struct {
	source     string
	sellerName string
	price      *float64
	available  bool
	hoursAgo   int
}

type sampleProduct struct {
	name         string
	description  string
	category     string
	brand        string
	modelNumber  string
	baseImageURL string
	specs        model.SpecMap
	quotes       []sampleQuote
}

func price(v float64) *float64 { return &v }

var sampleCatalog = []sampleProduct{
	{
		name:         "Foldsack No. 1 Backpack, Fits 15 Inch Laptops",
		description:  "Everyday pack with a padded sleeve for laptops up to 15 inches.",
		category:     "bags",
		brand:        "Foldsack",
		modelNumber:  "FS-BP-01",
		baseImageURL: "https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg",
		specs:        model.SpecMap{"capacity": "20L", "material": "polyester"},
		quotes: []sampleQuote{
			{model.SourceGeM, "Foldsack Official", price(8650.00), true, 2},
			{model.SourceAmazon, "Cloudtail India", price(8899.00), true, 3},
			{model.SourceFlipkart, "RetailNet", price(8750.50), true, 1},
		},
	},
	{
		name:        "Slim Fit Raglan Henley T-Shirt",
		description: "Contrast raglan long sleeve with a three-button henley placket.",
		category:    "men's clothing",
		brand:       "Urbano",
		quotes: []sampleQuote{
			{model.SourceGeM, "", price(1850.00), true, 25},
			{model.SourceAmazon, "Appario Retail", price(1750.00), true, 24},
			{model.SourceFlipkart, "Flashtech Retail", price(1799.00), false, 23},
			{"Myntra", "", price(1775.00), true, 24},
		},
	},
	{
		name:        "Mens Cotton Jacket",
		description: "Outerwear jacket for spring and autumn, suited to hiking and travel.",
		category:    "men's clothing",
		brand:       "Urbano",
		quotes: []sampleQuote{
			{model.SourceGeM, "", price(4399.00), true, 5},
			{model.SourceAmazon, "Cloudtail India", price(4599.00), true, 6},
			{model.SourceFlipkart, "RetailNet", price(4490.00), true, 4},
			{"Myntra", "", price(4550.00), true, 5},
		},
	},
	{
		name:        "Naga Gold & Silver Dragon Station Chain Bracelet",
		description: "Station chain bracelet inspired by the mythical water dragon.",
		category:    "jewellery",
		brand:       "John Hardy",
		quotes: []sampleQuote{
			{model.SourceGeM, "", price(56000.00), true, 10},
			{model.SourceAmazon, "Appario Retail", price(54990.00), true, 11},
			// Listing exists but no price could be read
			{model.SourceFlipkart, "", nil, false, 9},
		},
	},
	{
		name:         "WD 2TB Elements Portable External Hard Drive",
		description:  "USB 3.0 portable drive with fast data transfers, NTFS formatted.",
		category:     "electronics",
		brand:        "Western Digital",
		modelNumber:  "WDBU6Y0020BBK",
		baseImageURL: "https://fakestoreapi.com/img/61IBBVJvSDL._AC_SY879_.jpg",
		specs:        model.SpecMap{"capacity": "2TB", "interface": "USB 3.0"},
		quotes: []sampleQuote{
			{model.SourceGeM, "WD Authorized", price(5050.00), true, 18},
			{model.SourceAmazon, "Appario Retail", price(5199.00), true, 19},
			{model.SourceFlipkart, "SuperComNet", price(5150.00), true, 17},
		},
	},
	{
		name:         "SanDisk SSD PLUS 1TB Internal SSD",
		description:  "SATA III 6 Gb/s internal SSD for faster boot and application load.",
		category:     "electronics",
		brand:        "SanDisk",
		modelNumber:  "SDSSDA-1T00",
		baseImageURL: "https://fakestoreapi.com/img/61U7T1koQqL._AC_SX679_.jpg",
		specs:        model.SpecMap{"capacity": "1TB", "interface": "SATA III"},
		quotes: []sampleQuote{
			{model.SourceGeM, "SanDisk Authorized", price(8800.00), true, 20},
			{model.SourceAmazon, "Cloudtail India", price(8699.00), true, 21},
			{model.SourceFlipkart, "SuperComNet", price(8750.00), true, 19},
		},
	},
	{
		name:         "Acer SB220Q 21.5 Inch Full HD IPS Monitor",
		description:  "Ultra-thin 1920x1080 IPS display with Radeon FreeSync.",
		category:     "electronics",
		brand:        "Acer",
		modelNumber:  "SB220Q",
		baseImageURL: "https://fakestoreapi.com/img/81QpkIctqPL._AC_SX679_.jpg",
		specs:        model.SpecMap{"size": "21.5 inch", "resolution": "1920x1080"},
		quotes: []sampleQuote{
			{model.SourceGeM, "Acer Authorized", price(48500.00), true, 24},
			{model.SourceAmazon, "Appario Retail", price(47800.00), true, 25},
			{model.SourceFlipkart, "RetailNet", price(47500.00), true, 26},
		},
	},
	{
		name:        "Womens 3-in-1 Snowboard Jacket",
		description: "Winter coat with detachable warm fleece liner.",
		category:    "women's clothing",
		brand:       "Wildcraft",
		quotes: []sampleQuote{
			{model.SourceGeM, "", price(4600.00), true, 48},
			{model.SourceAmazon, "Cloudtail India", price(4550.00), true, 49},
			{model.SourceFlipkart, "", nil, false, 48},
			{"Myntra", "", price(4499.00), true, 48},
		},
	},
}

func seedSampleCatalog(productRepo repository.ProductRepository, priceRepo repository.PriceRepository) error {
	existing, err := productRepo.FindAll()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Printf("Catalog already has %d products, skipping sample seed\n", len(existing))
		return nil
	}

	now := time.Now()
	for _, sample := range sampleCatalog {
		product := &model.Product{
			Name:           sample.name,
			Description:    sample.description,
			Category:       sample.category,
			Brand:          sample.brand,
			ModelNumber:    sample.modelNumber,
			BaseImageURL:   sample.baseImageURL,
			Specifications: sample.specs,
		}
		if err := productRepo.Create(product); err != nil {
			return fmt.Errorf("failed to create product %q: %w", sample.name, err)
		}

		for _, q := range sample.quotes {
			available := q.available
			if err := priceRepo.Create(&model.Price{
				ProductID:   product.ID,
				Source:      q.source,
				SellerName:  q.sellerName,
				Price:       q.price,
				Currency:    "INR",
				IsAvailable: &available,
				FetchedAt:   now.Add(-time.Duration(q.hoursAgo) * time.Hour),
			}); err != nil {
				return fmt.Errorf("failed to create price for %q on %s: %w", sample.name, q.source, err)
			}
		}
	}

	fmt.Printf("Seeded %d products\n", len(sampleCatalog))
	return nil
}

// importFromXLSX reads quotes from the first sheet. Expected columns:
// name, description, category, brand, model_number, base_image_url,
// source, seller_name, price, currency, available, fetched_at
// (RFC 3339). Products are created on first sight of their name.
func importFromXLSX(filePath string, productRepo repository.ProductRepository, priceRepo repository.PriceRepository) (int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return 0, fmt.Errorf("no sheets found in XLSX file")
	}
	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("no data found in XLSX file")
	}

	productsByName := make(map[string]*model.Product)
	imported := 0
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 12 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		source := strings.TrimSpace(row[6])
		if name == "" || source == "" {
			skipped++
			continue
		}

		product, ok := productsByName[name]
		if !ok {
			product = &model.Product{
				Name:         name,
				Description:  strings.TrimSpace(row[1]),
				Category:     strings.TrimSpace(row[2]),
				Brand:        strings.TrimSpace(row[3]),
				ModelNumber:  strings.TrimSpace(row[4]),
				BaseImageURL: strings.TrimSpace(row[5]),
			}
			if err := productRepo.Create(product); err != nil {
				return imported, fmt.Errorf("failed to create product %q: %w", name, err)
			}
			productsByName[name] = product
		}

		var pricePtr *float64
		if raw := strings.TrimSpace(row[8]); raw != "" {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				skipped++
				continue
			}
			pricePtr = &value
		}

		currency := strings.TrimSpace(row[9])
		if currency == "" {
			currency = "INR"
		}
		available := strings.EqualFold(strings.TrimSpace(row[10]), "true")

		fetchedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(row[11]))
		if err != nil {
			skipped++
			continue
		}

		if err := priceRepo.Create(&model.Price{
			ProductID:   product.ID,
			Source:      source,
			SellerName:  strings.TrimSpace(row[7]),
			Price:       pricePtr,
			Currency:    currency,
			IsAvailable: &available,
			FetchedAt:   fetchedAt,
		}); err != nil {
			return imported, fmt.Errorf("failed to create price row %d: %w", i+1, err)
		}
		imported++
	}

	if skipped > 0 {
		fmt.Printf("Skipped %d malformed rows\n", skipped)
	}
	return imported, nil
}
