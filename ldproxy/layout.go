package ldproxy

// Map columns in the LDproxy response to their positions. The service header
// is: RS Number, Coord, Alleles, MAF, Distance, Dprime, R2.
const (
	ColRSID int = iota
	ColCoord
	ColAlleles
	ColMAF
	ColDistance
	ColDPrime
	ColR2
)

// MinColumns is the fewest tab-separated fields a data line may carry.
const MinColumns = ColR2 + 1
