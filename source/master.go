package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/retailflow/hybridjoin"
)

// Warner receives a logged warning when a key column falls back to
// auto-detection (spec §9: "auto-detect is allowed only as a fallback
// with a logged warning"). telemetry.Logger satisfies this.
type Warner interface {
	Warn(msg interface{}, keyvals ...interface{})
}

// ReadCustomerMaster loads the full customer master relation (spec §6:
// Customer_ID, Gender, Age, Occupation, City_Category,
// Stay_In_Current_City_Years, Marital_Status). warn may be nil.
func ReadCustomerMaster(r io.Reader, warn Warner) ([]hybridjoin.CustomerRow, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("reading customer master header: %w", err)
	}

	idIdx := indexOf(header, "Customer_ID")
	if idIdx < 0 {
		idIdx = 0
		if warn != nil {
			warn.Warn("customer master missing Customer_ID column, falling back to first column as key", "header", header)
		}
	}
	gender := indexOf(header, "Gender")
	age := indexOf(header, "Age")
	occupation := indexOf(header, "Occupation")
	city := indexOf(header, "City_Category")
	years := indexOf(header, "Stay_In_Current_City_Years")
	marital := indexOf(header, "Marital_Status")

	var rows []hybridjoin.CustomerRow
	for {
		line, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading customer master row: %w", err)
		}

		id, err := parseUint64(line[idIdx])
		if err != nil {
			return nil, fmt.Errorf("customer master Customer_ID: %w", err)
		}
		var occ uint32
		if occupation >= 0 {
			occ, _ = parseUint32(line[occupation])
		}

		rows = append(rows, hybridjoin.CustomerRow{
			CustomerID:    id,
			Gender:        field(line, gender),
			AgeBucket:     field(line, age),
			Occupation:    occ,
			CityCategory:  field(line, city),
			YearsInCity:   field(line, years),
			MaritalStatus: field(line, marital),
		})
	}
	return rows, nil
}

// ReadProductMaster loads the full product master relation (spec §6:
// Product_ID, Product_Category, supplierID, supplierName, storeID,
// storeName, price$). Note the literal "$" header suffix on the price
// column.
func ReadProductMaster(r io.Reader, warn Warner) ([]hybridjoin.ProductRow, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("reading product master header: %w", err)
	}

	idIdx := indexOf(header, "Product_ID")
	if idIdx < 0 {
		idIdx = 0
		if warn != nil {
			warn.Warn("product master missing Product_ID column, falling back to first column as key", "header", header)
		}
	}
	category := indexOf(header, "Product_Category")
	supplierID := indexOf(header, "supplierID")
	supplierName := indexOf(header, "supplierName")
	storeID := indexOf(header, "storeID")
	price := indexOf(header, "price$")
	if price < 0 {
		// Tolerate a header without the literal "$" suffix too.
		price = indexOf(header, "price")
	}

	var rows []hybridjoin.ProductRow
	for {
		line, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading product master row: %w", err)
		}

		var supID uint32
		if supplierID >= 0 {
			supID, _ = parseUint32(line[supplierID])
		}
		var store uint32
		if storeID >= 0 {
			store, _ = parseUint32(line[storeID])
		}
		var p float64
		if price >= 0 {
			p, err = parseFloat64(line[price])
			if err != nil {
				return nil, fmt.Errorf("product master price: %w", err)
			}
		}

		rows = append(rows, hybridjoin.ProductRow{
			ProductID:    line[idIdx],
			Category:     field(line, category),
			SupplierID:   supID,
			SupplierName: field(line, supplierName),
			StoreID:      store,
			Price:        p,
		})
	}
	return rows, nil
}

func field(line []string, idx int) string {
	if idx < 0 || idx >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[idx])
}
