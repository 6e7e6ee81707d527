package site

// Default returns the compiled-in registry, in report order.
func Default() []Site {
	return []Site{
		//     Name                 Hostname                                  Favicon
		mustNew("BT", "ib.btrl.ro", "https://www.bancatransilvania.ro/favicon.ico"),
		mustNew("ING", "homebank.ro", "https://www.ing.ro/favicon.ico"),
		mustNew("BRD", "mybrdnet.ro", "https://www.brd.ro/sites/all/themes/webtheme/images/favicon.ico"),
		mustNew("BCR", "24banking.ro", "https://www.bcr.ro/content/8ea9dd8a/-3b9c-429b-9f72-34e75b7512e3/favicon.ico"),
		mustNew("Raiffeisen", "raiffeisenonline.ro", "https://www.raiffeisen.ro/wps/contenthandler/!ut/p/digest!XHR_M-Rzf5C6GQ6vQGPqEA/dav/fs-type1/themes/ibm.portal.RZBInternet.80Theme/images/favicon.ico"),
		mustNew("CEC", "www.ceconline.ro", "https://www.cec.ro/favicon.ico"),
		mustNew("OTP", "otpdirekt.otpbank.ro", "https://otpdirekt.otpbank.ro/favicon.ico"),
		mustNew("UniCredit Tiriac", "ro.unicreditbanking.net", "https://www.unicredit-tiriac.ro/etc/designs/cee2020-pws-ro/favicon.ico"),
		mustNew("Volksbank", "www.volksbankromania.ro", "http://www.volksbank.ro/favicon.ico"),
		mustNew("AlphaBank", "www.alphaclick.ro", "https://www.alphabank.ro/favicon.ico"),
		mustNew("Bancpost", "fastbanking.bancpost.ro", "https://www.bancpost.ro/Images/icon-bancpost.png"),
		mustNew("Piraeus", "www.piraeusbank.com", "http://www.piraeusbank.ro/Images/icon.png"),
		mustNew("Credit Europe", "net.crediteurope.ro", "https://www.crediteurope.ro/favicon.gif"),
		mustNew("Banca Romaneasca", "ib.brom.ro", "https://www.banca-romaneasca.ro/favicon.ico"),
		mustNew("GarantiBank", "ebank.garantibank.ro", "http://www.garantibank.ro/favicon.ico"),
		mustNew("Intesa Sanpaolo", "internetbanking.intesasanpaolobank.ro", "https://www.intesasanpaolobank.ro/favicon.ico"),
		mustNew("Carpatica", "e-smart.carpatica.ro", "https://www.carpatica.ro/wp-content/themes/carpatica/images/favicon.ico"),
		mustNew("Marfin", "ebanking.marfinbank.ro", "http://www.marfinbank.ro/favicon.ico"),
		mustNew("Libra", "secure.internetbanking.ro", "http://www.librabank.ro/favicon.ico"),
		mustNew("Banca Feroviara", "bcfonline.bfer.ro", "http://www.bancaferoviara.ro/favicon.ico"),
	}
}
