package components

const (
	featureCardBase  = "group relative p-6 border-2 border-black bg-white hover:translate-x-[-4px] hover:translate-y-[-4px] hover:shadow-[4px_4px_0px_0px_rgba(0,0,0)] transition-all"
	documentCardBase = "relative block p-6 border-2 border-black bg-white cursor-pointer hover:translate-x-[-4px] hover:translate-y-[-4px] hover:shadow-[4px_4px_0px_0px_rgba(0,0,0)] transition-all"
)
