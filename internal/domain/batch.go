package domain

// Partition splits products into consecutive groups of at most size items.
// The last group may be smaller. Concatenating the groups reproduces the
// input exactly once, in order.
func Partition(products []Product, size int) [][]Product {
	if size <= 0 {
		size = 1
	}
	batches := make([][]Product, 0, NumBatches(len(products), size))
	for start := 0; start < len(products); start += size {
		end := start + size
		if end > len(products) {
			end = len(products)
		}
		batches = append(batches, products[start:end])
	}
	return batches
}

// NumBatches returns ceil(n/size), the number of generation calls needed to
// cover n items.
func NumBatches(n, size int) int {
	if size <= 0 {
		size = 1
	}
	return (n + size - 1) / size
}
