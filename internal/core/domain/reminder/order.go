package reminder

type OrderBy int

const OrderByScheduledAtAsc OrderBy = 0
