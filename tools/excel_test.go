package tools

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type embeddedRow struct {
	Rank uint `excel:"排名"`
}

type exportRow struct {
	embeddedRow
	Number  string   `excel:"报名编号"`
	Average *float64 `excel:"平均分"`
	Secret  string   `excel:"-"`
}

func TestWriteSheet(t *testing.T) {
	avg := 79.5
	rows := []exportRow{
		{embeddedRow: embeddedRow{Rank: 1}, Number: "REG-001", Average: &avg, Secret: "x"},
		{embeddedRow: embeddedRow{Rank: 2}, Number: "REG-002"},
	}

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, WriteSheet(f, "rank", rows))

	got, err := f.GetRows("rank")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []string{"排名", "报名编号", "平均分"}, got[0])
	require.Equal(t, []string{"1", "REG-001", "79.5"}, got[1])
	require.GreaterOrEqual(t, len(got[2]), 2)
	require.Equal(t, []string{"2", "REG-002"}, got[2][:2])
}

func TestWriteSheetRejectsNonStruct(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.Error(t, WriteSheet(f, "", []int{1, 2}))
	require.Error(t, WriteSheet(f, "", "oops"))
}

func TestPasswordCompare(t *testing.T) {
	hashed := PasswordEncrypt("s3cret!pw")
	require.True(t, PasswordCompare("s3cret!pw", hashed))
	require.False(t, PasswordCompare("wrong", hashed))
}
