package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/lciaqsar/qsarstats/pkg/errors"
)

func init() {
	gob.Register(&LinearEstimator{})
}

// SavePredictor writes p to filename with encoding/gob.
func SavePredictor(p Predictor, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	return SavePredictorToWriter(p, file)
}

// LoadPredictor reads a predictor written by SavePredictor.
func LoadPredictor(filename string) (Predictor, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadPredictorFromReader(file)
}

// SavePredictorToWriter gob-encodes p as an interface value, so the concrete
// type must be registered with gob.Register.
func SavePredictorToWriter(p Predictor, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(&p); err != nil {
		return errors.Wrap(err, "failed to encode predictor")
	}
	return nil
}

// LoadPredictorFromReader decodes a predictor written by SavePredictorToWriter.
func LoadPredictorFromReader(r io.Reader) (Predictor, error) {
	var p Predictor
	if err := gob.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "failed to decode predictor")
	}
	return p, nil
}
