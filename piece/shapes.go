package piece

// shapeMatrices holds every rotation state, clockwise order, for each shape.
var shapeMatrices = [NumShapes][][][]uint8{
	I: {
		{
			{0, 0, 0, 0},
			{1, 1, 1, 1},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		},
		{
			{0, 0, 1, 0},
			{0, 0, 1, 0},
			{0, 0, 1, 0},
			{0, 0, 1, 0},
		},
	},
	O: {
		{
			{1, 1},
			{1, 1},
		},
	},
	T: {
		{
			{0, 1, 0},
			{1, 1, 1},
			{0, 0, 0},
		},
		{
			{0, 1, 0},
			{0, 1, 1},
			{0, 1, 0},
		},
		{
			{0, 0, 0},
			{1, 1, 1},
			{0, 1, 0},
		},
		{
			{0, 1, 0},
			{1, 1, 0},
			{0, 1, 0},
		},
	},
	S: {
		{
			{0, 1, 1},
			{1, 1, 0},
			{0, 0, 0},
		},
		{
			{1, 0, 0},
			{1, 1, 0},
			{0, 1, 0},
		},
	},
	Z: {
		{
			{1, 1, 0},
			{0, 1, 1},
			{0, 0, 0},
		},
		{
			{0, 0, 1},
			{0, 1, 1},
			{0, 1, 0},
		},
	},
	J: {
		{
			{1, 0, 0},
			{1, 1, 1},
			{0, 0, 0},
		},
		{
			{0, 1, 1},
			{0, 1, 0},
			{0, 1, 0},
		},
		{
			{0, 0, 0},
			{1, 1, 1},
			{0, 0, 1},
		},
		{
			{0, 1, 0},
			{0, 1, 0},
			{1, 1, 0},
		},
	},
	L: {
		{
			{0, 0, 1},
			{1, 1, 1},
			{0, 0, 0},
		},
		{
			{0, 1, 0},
			{0, 1, 0},
			{0, 1, 1},
		},
		{
			{0, 0, 0},
			{1, 1, 1},
			{1, 0, 0},
		},
		{
			{1, 1, 0},
			{0, 1, 0},
			{0, 1, 0},
		},
	},
}
