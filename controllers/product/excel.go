package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/models"
)

// Spreadsheet columns shared by import and export.
var excelHeaders = []string{
	"ID", "Name", "Description", "Price", "ComparePrice", "Stock",
	"IsActive", "Image", "CategoryIDs", "AverageRating", "TotalReviews",
	"CreatedAt", "UpdatedAt",
}

const minImportColumns = 9

// ImportProductsFromExcel creates or updates products from the first sheet of an .xlsx upload.
// Rows with an ID that matches an existing product update it; other rows create new products.
// POST /admin/products/import-excel
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		tx := db.WithContext(c.Request.Context())
		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < len(sheet.Rows); i++ {
			row := sheet.Rows[i]
			if row == nil || len(row.Cells) < minImportColumns {
				skippedCount++
				continue
			}

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			product, ok := productFromRow(get)
			if !ok {
				skippedCount++
				continue
			}
			categoryIDs, err := parseCategoryIDs(get(8))
			if err != nil {
				skippedCount++
				continue
			}
			categories, err := loadCategories(tx, categoryIDs)
			if err != nil {
				skippedCount++
				continue
			}

			if id, err := strconv.ParseUint(get(0), 10, 64); err == nil && id > 0 {
				var existing models.Product
				if err := tx.First(&existing, id).Error; err == nil {
					existing.Name = product.Name
					existing.Description = product.Description
					existing.Price = product.Price
					existing.ComparePrice = product.ComparePrice
					existing.Stock = product.Stock
					existing.IsActive = product.IsActive
					existing.Image = product.Image

					err := tx.Transaction(func(tx *gorm.DB) error {
						if err := tx.Omit(clause.Associations).Save(&existing).Error; err != nil {
							return err
						}
						return tx.Model(&existing).Association("Categories").Replace(categories)
					})
					if err != nil {
						skippedCount++
					} else {
						updatedCount++
					}
					continue
				}
			}

			product.Categories = categories
			if err := tx.Create(&product).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Import completed",
			"createdCount": createdCount,
			"updatedCount": updatedCount,
			"skippedCount": skippedCount,
		})
	}
}

// productFromRow reads the editable columns of one spreadsheet row.
func productFromRow(get func(int) string) (models.Product, bool) {
	name := get(1)
	price, err := common.ParseMoney(get(3))
	if name == "" || err != nil || !price.Valid {
		return models.Product{}, false
	}
	compare, err := common.ParseMoney(get(4))
	if err != nil {
		return models.Product{}, false
	}
	stock := 0
	if s := get(5); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 {
			return models.Product{}, false
		}
		stock = int(f)
	}

	return models.Product{
		Name:         name,
		Description:  get(2),
		Price:        price.Decimal,
		ComparePrice: compare,
		Stock:        stock,
		IsActive:     common.ParseBool(strings.ToLower(get(6)), true),
		Image:        get(7),
	}, true
}
