package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, description, city, country, image_urls, type, facilities,
   star_rating, price_per_night, adult_count, child_count)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name            = VALUES(name),
  description     = VALUES(description),
  city            = VALUES(city),
  country         = VALUES(country),
  image_urls      = VALUES(image_urls),
  type            = VALUES(type),
  facilities      = VALUES(facilities),
  star_rating     = VALUES(star_rating),
  price_per_night = VALUES(price_per_night),
  adult_count     = VALUES(adult_count),
  child_count     = VALUES(child_count),
  updated_at      = CURRENT_TIMESTAMP
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

const insertBookingsPrefix = "INSERT INTO bookings\n" +
	"  (id, hotel_id, user_id, first_name, last_name, email, adult_count, child_count, check_in, check_out, total_cost)\nVALUES "

const insertBookingsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  user_id     = VALUES(user_id),\n" +
	"  first_name  = VALUES(first_name),\n" +
	"  last_name   = VALUES(last_name),\n" +
	"  email       = VALUES(email),\n" +
	"  adult_count = VALUES(adult_count),\n" +
	"  child_count = VALUES(child_count),\n" +
	"  check_in    = VALUES(check_in),\n" +
	"  check_out   = VALUES(check_out),\n" +
	"  total_cost  = VALUES(total_cost)\n"

const upsertPreferencesSQL = `
INSERT INTO user_preferences
  (user_id, types, facilities, star_rating, price_range, adults, children)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  types       = VALUES(types),
  facilities  = VALUES(facilities),
  star_rating = VALUES(star_rating),
  price_range = VALUES(price_range),
  adults      = VALUES(adults),
  children    = VALUES(children)
`

const upsertUserSQL = `
INSERT INTO users (id, email, password_hash, role)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  password_hash = VALUES(password_hash),
  role          = VALUES(role)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const hotelColumns = `
  id, name, description, city, country, image_urls, type, facilities,
  star_rating, price_per_night, adult_count, child_count`

// Catalog order is insertion order; ranking ties fall back to it.
const listHotelsSQL = `SELECT` + hotelColumns + `
FROM hotels
ORDER BY created_at, id`

const getHotelSQL = `SELECT` + hotelColumns + `
FROM hotels
WHERE id = ?`

const listBookingsSQL = `
SELECT id, hotel_id, user_id, first_name, last_name, email,
       adult_count, child_count, check_in, check_out, total_cost
FROM bookings
WHERE hotel_id = ?
ORDER BY check_in, id`

const getPreferencesSQL = `
SELECT types, facilities, star_rating, price_range, adults, children
FROM user_preferences
WHERE user_id = ?`

const getUserByEmailSQL = `
SELECT id, email, password_hash, role
FROM users
WHERE email = ?`
