package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"electro_store/model"
	"electro_store/utils"

	"github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeader = []string{
	"ID", "Name", "Category", "Current Price", "Original Price", "Discount",
	"Rating", "Reviews", "In Stock", "Features", "Image", "Description",
}

// ExportProducts streams the whole catalog as an xlsx workbook.
func (h *Handler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.Products.List(r.Context(), model.ProductFilter{})
	if err != nil {
		respondServiceError(w, err, "failed to fetch products")
		return
	}

	file, err := productsWorkbook(list)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to build workbook")
		return
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err, "failed to write workbook")
		return
	}

	filename := "products-" + time.Now().UTC().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logrus.Errorf("ExportProducts: failed to send workbook err = %v", err)
	}
}

func productsWorkbook(list []model.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, title := range exportHeader {
		header.AddCell().SetValue(title)
	}

	for _, p := range list {
		var originalPrice interface{}
		if p.OriginalPrice != nil {
			originalPrice = *p.OriginalPrice
		}
		discount := ""
		if p.Discount != nil {
			discount = *p.Discount
		}

		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.CurrentPrice)
		row.AddCell().SetValue(originalPrice)
		row.AddCell().SetValue(discount)
		row.AddCell().SetValue(p.Rating)
		row.AddCell().SetValue(p.Reviews)
		row.AddCell().SetValue(strconv.FormatBool(p.InStock))
		row.AddCell().SetValue(strings.Join(p.Features, "; "))
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(p.Description)
	}
	return file, nil
}
