package mating

import (
	"errors"
	"testing"

	"matingcore/internal/population"
)

func resizerLayout() population.Layout {
	return population.Layout{Ploidy: 2, Chromosomes: []population.ChromosomeRange{{Begin: 0, End: 2}}}
}

func TestResizeSubPopsKeepsCurrentByDefault(t *testing.T) {
	pop := population.New(resizerLayout(), []int{4, 6})
	sizes, err := resizeSubPops(MatingConfig{}, pop, 0)
	if err != nil {
		t.Fatalf("resizeSubPops: %v", err)
	}
	if sizes[0] != 4 || sizes[1] != 6 {
		t.Fatalf("expected sizes to stay [4,6], got %v", sizes)
	}
}

func TestResizeSubPopsFixedVector(t *testing.T) {
	pop := population.New(resizerLayout(), []int{4, 6})
	sizes, err := resizeSubPops(MatingConfig{NewSubPopSize: []int{10, 12}}, pop, 0)
	if err != nil {
		t.Fatalf("resizeSubPops: %v", err)
	}
	if sizes[0] != 10 || sizes[1] != 12 {
		t.Fatalf("expected fixed sizes [10,12], got %v", sizes)
	}
}

func TestResizeSubPopsExpression(t *testing.T) {
	pop := population.New(resizerLayout(), []int{10})
	sizes, err := resizeSubPops(MatingConfig{NewSubPopSizeExpr: "popSize * 1.5"}, pop, 0)
	if err != nil {
		t.Fatalf("resizeSubPops: %v", err)
	}
	if sizes[0] != 15 {
		t.Fatalf("expected expression-resized size 15, got %d", sizes[0])
	}
}

func TestResizeSubPopsCallbackTakesPriority(t *testing.T) {
	pop := population.New(resizerLayout(), []int{4})
	cfg := MatingConfig{
		NewSubPopSize: []int{999},
		NewSubPopSizeFunc: func(gen int, current []int) []int {
			return []int{current[0] + 1}
		},
	}
	sizes, err := resizeSubPops(cfg, pop, 0)
	if err != nil {
		t.Fatalf("resizeSubPops: %v", err)
	}
	if sizes[0] != 5 {
		t.Fatalf("expected callback priority result 5, got %d", sizes[0])
	}
}

func TestResizeSubPopsRejectsWrongCount(t *testing.T) {
	pop := population.New(resizerLayout(), []int{4, 6})
	_, err := resizeSubPops(MatingConfig{NewSubPopSize: []int{10}}, pop, 0)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for wrong subpop count, got %v", err)
	}
}

func TestResizeSubPopsRejectsNegativeSize(t *testing.T) {
	pop := population.New(resizerLayout(), []int{4})
	_, err := resizeSubPops(MatingConfig{NewSubPopSize: []int{-1}}, pop, 0)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for negative size, got %v", err)
	}
}
