// Command covertext encodes a secret message into a cover sentence,
// or decodes one back, using compiled model artifacts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/cognicore/covertext/pkg/covertext"
	"github.com/cognicore/covertext/pkg/covertext/model"
)

func main() {
	var (
		modelDir = flag.String("model", "model", "Directory containing model artifacts")
		beam     = flag.Int("beam", 5, "Beam width for encoding")
		encode   = flag.String("encode", "", "Secret message to hide")
		decode   = flag.String("decode", "", "Cover sentence to decode")
	)
	flag.Parse()

	if *encode == "" && *decode == "" {
		log.Fatal("pass --encode or --decode")
	}

	if *decode != "" {
		// Decoding needs no model
		codec := covertext.New(covertext.Options{})
		fmt.Println(codec.Decode(*decode))
		if *encode == "" {
			return
		}
	}

	m, err := loadModel(*modelDir)
	if err != nil {
		log.Fatal(err)
	}

	codec := covertext.New(covertext.Options{Model: m, BeamWidth: *beam})
	result := codec.Encode(*encode)
	fmt.Println(result.Sentence)
	if result.Truncated() {
		log.Printf("WARNING: dead end after %d of %d characters; the recovered message will be a prefix",
			result.Consumed, utf8.RuneCountInString(result.Target))
	}
}

// loadModel reads the bigram artifact and, when present, the trigram
// artifact next to it.
func loadModel(dir string) (*model.Model, error) {
	bf, err := os.Open(filepath.Join(dir, "model_data.json"))
	if err != nil {
		return nil, err
	}
	defer bf.Close()

	tf, err := os.Open(filepath.Join(dir, "model_data_trigram.json"))
	if os.IsNotExist(err) {
		return model.ReadArtifacts(bf, nil)
	}
	if err != nil {
		return nil, err
	}
	defer tf.Close()

	return model.ReadArtifacts(bf, tf)
}
