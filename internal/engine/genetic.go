package engine

import (
	"context"
	"math/rand"
	"sort"

	"github.com/piwi3910/BarCut/internal/catalog"
	"github.com/piwi3910/BarCut/internal/model"
)

// GeneticConfig holds parameters for the genetic algorithm optimizer.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// scaled grows the search for larger cut lists.
func (c GeneticConfig) scaled(items int) GeneticConfig {
	if items > 20 && c.Generations < 150 {
		c.Generations = 150
	}
	if items > 50 {
		if c.Generations < 200 {
			c.Generations = 200
		}
		if c.PopulationSize < 80 {
			c.PopulationSize = 80
		}
	}
	return c
}

// Genetic evolves the order in which demand pieces are fed to a first-fit
// packer. The population always contains the length-descending order, so
// with elitism the result is never worse than FirstFitDecreasing.
type Genetic struct {
	Config GeneticConfig
}

func (g Genetic) Optimize(ctx context.Context, in Input) (model.OptimizationResult, error) {
	items := in.Catalog.ExpandDecreasing()
	if len(items) == 0 {
		return newPacker(in).result(), nil
	}
	config := g.Config
	if config.PopulationSize <= 0 {
		config = DefaultGeneticConfig()
	}
	ga := newGeneticOptimizer(in, config.scaled(len(items)), items)
	return ga.optimize(ctx)
}

// fitness ranks decoded layouts: more placed length first, then fewer bars.
type fitness struct {
	placed float64
	bars   int
}

func (f fitness) better(o fitness) bool {
	if f.placed > o.placed+eps {
		return true
	}
	if f.placed < o.placed-eps {
		return false
	}
	return f.bars < o.bars
}

// chromosome is a permutation of indices into the expanded item list.
type chromosome struct {
	genes   []int
	fitness fitness
}

type geneticOptimizer struct {
	in     Input
	config GeneticConfig
	items  []catalog.Item
	rng    *rand.Rand
}

func newGeneticOptimizer(in Input, config GeneticConfig, items []catalog.Item) *geneticOptimizer {
	return &geneticOptimizer{
		in:     in,
		config: config,
		items:  items,
		rng:    rand.New(rand.NewSource(in.Settings.Seed)),
	}
}

func (g *geneticOptimizer) optimize(ctx context.Context) (model.OptimizationResult, error) {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return model.OptimizationResult{}, err
		}
		g.rank(population)

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		eliteCount := g.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)
			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)
			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	g.rank(population)
	return g.decode(population[0]).result(), nil
}

// rank sorts best first; ties keep their current order so runs stay reproducible.
func (g *geneticOptimizer) rank(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness.better(population[j].fitness)
	})
}

func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.items)
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		population[i] = chromosome{genes: g.rng.Perm(n)}
	}

	// Items arrive length-descending, so the identity order is the greedy one.
	if len(population) > 0 {
		greedy := make([]int, n)
		for i := range greedy {
			greedy[i] = i
		}
		population[0] = chromosome{genes: greedy}
	}
	return population
}

func (g *geneticOptimizer) evaluate(c chromosome) fitness {
	p := g.decode(c)
	var placed float64
	for _, b := range p.bars {
		for _, it := range b.items {
			placed += it.Length
		}
	}
	return fitness{placed: placed, bars: len(p.bars)}
}

// decode packs items first-fit in chromosome order on a private pool.
func (g *geneticOptimizer) decode(c chromosome) *packer {
	in := g.in
	in.Pool = g.in.Pool.Clone()
	p := newPacker(in)
	for _, idx := range c.genes {
		it := g.items[idx]
		if p.firstFit(it) || p.openFirst(it) {
			continue
		}
		p.unmet = append(p.unmet, it)
	}
	return p
}

func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness.better(best.fitness) {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}
	inSegment := make([]bool, n)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}
	return child
}

func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	// Inversion (less frequent)
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
