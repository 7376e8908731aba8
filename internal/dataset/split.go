package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/ppiankov/sahte/internal/model"
)

// Split shuffles docs deterministically for seed and holds out
// ceil(testSize * n) documents for testing. Both parts are non-empty, and
// when the train part has room, every label in docs keeps at least one
// training document.
func Split(docs []model.Document, testSize float64, seed uint64) (train, test []model.Document, err error) {
	n := len(docs)
	if n < 2 {
		return nil, nil, fmt.Errorf("split: need at least 2 documents, have %d", n)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("split: test size %v outside (0,1)", testSize)
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTest = min(max(nTest, 1), n-1)

	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)

	test = make([]model.Document, 0, nTest)
	train = make([]model.Document, 0, n-nTest)
	for i, idx := range perm {
		if i < nTest {
			test = append(test, docs[idx])
		} else {
			train = append(train, docs[idx])
		}
	}
	keepLabelsInTrain(train, test)
	return train, test, nil
}

// keepLabelsInTrain swaps a test document of each label missing from train
// with a train document whose label occurs there more than once
func keepLabelsInTrain(train, test []model.Document) {
	counts := make(map[model.Label]int)
	for _, d := range train {
		counts[d.Label]++
	}

	for j := range test {
		missing := test[j].Label
		if counts[missing] > 0 {
			continue
		}
		for k := range train {
			if counts[train[k].Label] < 2 {
				continue
			}
			counts[train[k].Label]--
			counts[missing]++
			train[k], test[j] = test[j], train[k]
			break
		}
	}
}
