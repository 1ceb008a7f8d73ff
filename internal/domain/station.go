package domain

// StationType тип рабочего места (кресло, мойка, маникюрный стол)
type StationType struct {
	ID   int64
	Name string
}

// Station физическое рабочее место
type Station struct {
	ID            int64
	StationTypeID int64
	Name          string
	Active        bool
}
