package engine

import (
	"context"

	"github.com/piwi3910/BarCut/internal/model"
)

// FirstFitDecreasing sorts demand by length descending and puts each piece
// into the first open bar with enough remaining length. A new stock
// instance is opened only when none fits, taking the first compatible stock
// piece in catalog order.
func FirstFitDecreasing(ctx context.Context, in Input) (model.OptimizationResult, error) {
	p, err := firstFitLayout(ctx, in)
	if err != nil {
		return model.OptimizationResult{}, err
	}
	return p.result(), nil
}

// BestFitDecreasing uses the same outer loop as FirstFitDecreasing but puts
// each piece into the open bar left with the least remaining length, and
// opens the shortest compatible stock piece when none fits.
//
// With limited stock of several lengths, opening the shortest bar can use up
// a stock type a later piece needed. The first-fit layout is packed from its
// own copy of the pool and kept whenever it places more length, so the
// result never has more waste than FirstFitDecreasing.
func BestFitDecreasing(ctx context.Context, in Input) (model.OptimizationResult, error) {
	ffIn := in
	ffIn.Pool = in.Pool.Clone()

	bf, err := bestFitLayout(ctx, in)
	if err != nil {
		return model.OptimizationResult{}, err
	}
	ff, err := firstFitLayout(ctx, ffIn)
	if err != nil {
		return model.OptimizationResult{}, err
	}
	if ff.placedLength() > bf.placedLength()+eps {
		return ff.result(), nil
	}
	return bf.result(), nil
}

func firstFitLayout(ctx context.Context, in Input) (*packer, error) {
	p := newPacker(in)
	for _, it := range in.Catalog.ExpandDecreasing() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.firstFit(it) || p.openFirst(it) {
			continue
		}
		p.unmet = append(p.unmet, it)
	}
	return p, nil
}

func bestFitLayout(ctx context.Context, in Input) (*packer, error) {
	p := newPacker(in)
	for _, it := range in.Catalog.ExpandDecreasing() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.bestFit(it) || p.openShortest(it) {
			continue
		}
		p.unmet = append(p.unmet, it)
	}
	return p, nil
}
