package sheets

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/Fantastik19951/financebot/middleware"
)

// Store — доступ к листам таблицы. Номера строк и колонок 1-базовые,
// строка 1 — заголовок, первая строка данных — 2 (как в самой таблице).
type Store interface {
	Rows(sheet string) ([][]string, error)
	Append(sheet string, row []string) error
	UpdateCell(sheet string, row, col int, value string) error
	UpdateRow(sheet string, row int, values []string) error
	DeleteRow(sheet string, row int) error
}

// GoogleStore — реализация поверх Google Sheets API v4 с сервисным аккаунтом.
type GoogleStore struct {
	srv           *gsheets.Service
	spreadsheetID string
	sheetIDs      map[string]int64
}

func Connect(ctx context.Context, credentials []byte, spreadsheetID string) (*GoogleStore, error) {
	srv, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON(credentials),
		option.WithScopes(gsheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("клиент sheets: %w", err)
	}

	doc, err := srv.Spreadsheets.Get(spreadsheetID).Do()
	if err != nil {
		return nil, fmt.Errorf("открытие таблицы: %w", err)
	}

	st := &GoogleStore{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}
	for _, sh := range doc.Sheets {
		st.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
	}
	log.Printf("Подключена таблица %s, листов: %d", spreadsheetID, len(doc.Sheets))
	return st, nil
}

// EnsureSheets создаёт отсутствующие листы и дописывает в них строку заголовка.
func (st *GoogleStore) EnsureSheets(headers map[string][]string) error {
	for name, header := range headers {
		if _, ok := st.sheetIDs[name]; ok {
			continue
		}
		resp, err := st.srv.Spreadsheets.BatchUpdate(st.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
			Requests: []*gsheets.Request{{
				AddSheet: &gsheets.AddSheetRequest{
					Properties: &gsheets.SheetProperties{Title: name},
				},
			}},
		}).Do()
		if err != nil {
			return fmt.Errorf("создание листа %q: %w", name, err)
		}
		st.sheetIDs[name] = resp.Replies[0].AddSheet.Properties.SheetId
		if err := st.Append(name, header); err != nil {
			return fmt.Errorf("заголовок листа %q: %w", name, err)
		}
		log.Printf("Создан лист %q", name)
	}
	return nil
}

func (st *GoogleStore) Rows(sheet string) ([][]string, error) {
	middleware.SheetsRequestsTotal.WithLabelValues("get").Inc()
	resp, err := st.srv.Spreadsheets.Values.Get(st.spreadsheetID, quoteRange(sheet, "A1:Z")).Do()
	if err != nil {
		return nil, fmt.Errorf("чтение листа %q: %w", sheet, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (st *GoogleStore) Append(sheet string, row []string) error {
	middleware.SheetsRequestsTotal.WithLabelValues("append").Inc()
	_, err := st.srv.Spreadsheets.Values.Append(st.spreadsheetID, quoteRange(sheet, "A1"), valueRange(row)).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Do()
	if err != nil {
		return fmt.Errorf("добавление в лист %q: %w", sheet, err)
	}
	return nil
}

func (st *GoogleStore) UpdateCell(sheet string, row, col int, value string) error {
	middleware.SheetsRequestsTotal.WithLabelValues("update").Inc()
	rng := quoteRange(sheet, fmt.Sprintf("%s%d", colName(col), row))
	_, err := st.srv.Spreadsheets.Values.Update(st.spreadsheetID, rng, valueRange([]string{value})).
		ValueInputOption("USER_ENTERED").
		Do()
	if err != nil {
		return fmt.Errorf("обновление %s в листе %q: %w", rng, sheet, err)
	}
	return nil
}

func (st *GoogleStore) UpdateRow(sheet string, row int, values []string) error {
	middleware.SheetsRequestsTotal.WithLabelValues("update").Inc()
	rng := quoteRange(sheet, fmt.Sprintf("A%d:%s%d", row, colName(len(values)), row))
	_, err := st.srv.Spreadsheets.Values.Update(st.spreadsheetID, rng, valueRange(values)).
		ValueInputOption("USER_ENTERED").
		Do()
	if err != nil {
		return fmt.Errorf("обновление строки %d листа %q: %w", row, sheet, err)
	}
	return nil
}

func (st *GoogleStore) DeleteRow(sheet string, row int) error {
	middleware.SheetsRequestsTotal.WithLabelValues("delete").Inc()
	sheetID, ok := st.sheetIDs[sheet]
	if !ok {
		return fmt.Errorf("неизвестный лист %q", sheet)
	}
	_, err := st.srv.Spreadsheets.BatchUpdate(st.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			DeleteDimension: &gsheets.DeleteDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}).Do()
	if err != nil {
		return fmt.Errorf("удаление строки %d листа %q: %w", row, sheet, err)
	}
	return nil
}

func valueRange(row []string) *gsheets.ValueRange {
	vals := make([]interface{}, len(row))
	for i, v := range row {
		vals[i] = v
	}
	return &gsheets.ValueRange{Values: [][]interface{}{vals}}
}

func quoteRange(sheet, a1 string) string {
	return fmt.Sprintf("'%s'!%s", sheet, a1)
}

// colName переводит 1-базовый номер колонки в буквенное имя: 1→A, 27→AA.
func colName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}
