package usercsv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	p := NewParser(nil)

	input := strings.Join([]string{
		`email,full_name,processes`,
		`ivanov@example.com,Ivan Ivanov,"1,2,3"`,
		`petrova@example.com,Anna Petrova,2`,
	}, "\n")

	items, rowErrs, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, items, 2)

	assert.Equal(t, "ivanov@example.com", items[0].Email)
	assert.Equal(t, "Ivan Ivanov", items[0].FullName)
	assert.Equal(t, []string{"1", "2", "3"}, items[0].Processes)

	assert.Equal(t, []string{"2"}, items[1].Processes)
}

func TestParser_Parse_HeaderVariants(t *testing.T) {
	p := NewParser(nil)

	t.Run("bom and mixed case", func(t *testing.T) {
		input := "\uFEFFEmail,Full_Name,Processes\nuser@example.com,User,1\n"
		items, _, err := p.Parse(strings.NewReader(input))
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("wrong columns", func(t *testing.T) {
		input := "login,name,stuff\nuser@example.com,User,1\n"
		_, _, err := p.Parse(strings.NewReader(input))
		assert.ErrorIs(t, err, ErrInvalidHeader)
	})
}

func TestParser_Parse_RowErrors(t *testing.T) {
	p := NewParser(nil)

	input := strings.Join([]string{
		`email,full_name,processes`,
		`good@example.com,Good Row,"1,2"`,
		`short@example.com,Missing Column`,
	}, "\n")

	items, rowErrs, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, items, 1)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, 3, rowErrs[0].Line)
}

func TestParser_Parse_Empty(t *testing.T) {
	p := NewParser(nil)

	_, _, err := p.Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, _, err = p.Parse(strings.NewReader("email,full_name,processes\n"))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParser_Parse_SkipsBlankRows(t *testing.T) {
	p := NewParser(nil)

	input := "email,full_name,processes\n,,\nuser@example.com,User,1\n"
	items, rowErrs, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Len(t, items, 1)
}

func TestParser_Parse_MaxRows(t *testing.T) {
	p := NewParser(&Options{MaxRows: 1})

	input := strings.Join([]string{
		`email,full_name,processes`,
		`a@example.com,A,1`,
		`b@example.com,B,1`,
	}, "\n")

	_, _, err := p.Parse(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrTooManyRows)
}

func TestWriteTemplate_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	// Processes field must come back quoted so the comma survives.
	assert.Contains(t, buf.String(), `"1,2,3"`)

	items, rowErrs, err := NewParser(nil).Parse(&buf)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Len(t, items, len(templateRows))
}
