package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"xqpuzzle/internal/xiangqi"
)

func main() {
	fen := flag.String("fen", "", "board FEN (default: initial position)")
	flag.Parse()

	b := xiangqi.NewInitialBoard()
	if *fen != "" {
		parsed, err := xiangqi.ParseFEN(*fen)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad FEN:", err)
			os.Exit(2)
		}
		b = parsed
	}

	fmt.Println("FEN:", b.FEN())
	fmt.Print(b.String())
	for _, side := range []xiangqi.Color{xiangqi.Red, xiangqi.Black} {
		all := b.AllDestinations(side)
		froms := make([]xiangqi.Pos, 0, len(all))
		for from := range all {
			froms = append(froms, from)
		}
		sort.Slice(froms, func(i, j int) bool {
			if froms[i].Y != froms[j].Y {
				return froms[i].Y < froms[j].Y
			}
			return froms[i].X < froms[j].X
		})
		fmt.Printf("%s: %d moves\n", side, len(b.Moves(side)))
		for _, from := range froms {
			pc := b.At(from.X, from.Y)
			fmt.Printf("  %s %d,%d -> %v\n", pc.Code(), from.X, from.Y, all[from])
		}
	}
}
