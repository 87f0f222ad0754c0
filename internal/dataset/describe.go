package dataset

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Describe summarizes the non-missing values of a numeric column (mean,
// median, deviation, min, quartiles, max).
func Describe(name string, values []float64) (dataframe.DataFrame, error) {
	var present []float64
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("describe %q: no values", name)
	}

	df := dataframe.New(series.New(present, series.Float, name))
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	summary := df.Describe()
	if summary.Err != nil {
		return dataframe.DataFrame{}, summary.Err
	}
	return summary, nil
}

func WriteDescribe(w io.Writer, name string, values []float64) error {
	summary, err := Describe(name, values)
	if err != nil {
		return err
	}
	return summary.WriteCSV(w)
}

func WriteDescribeFile(path, name string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = WriteDescribe(f, name, values)
	if err != nil {
		return err
	}
	return f.Close()
}
